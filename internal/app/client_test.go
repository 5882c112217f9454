package app

import (
	"context"
	"errors"
	"testing"

	"gamehub/internal/kvstore"
	"gamehub/internal/model"
	"gamehub/internal/repository"
)

// The tests run the real repositories on top of the in-memory Store, so they
// exercise the whole stack below the HTTP layer: validation, persistence
// ordering and in-memory state transitions.

// countingStore wraps a Store and counts writes, so tests can assert that a
// rejected operation never touched storage.
type countingStore struct {
	kvstore.Store
	sets    int
	deletes int
}

func (s *countingStore) Set(ctx context.Context, key, value string, shared bool) error {
	s.sets++
	return s.Store.Set(ctx, key, value, shared)
}

func (s *countingStore) Delete(ctx context.Context, key string, shared bool) error {
	s.deletes++
	return s.Store.Delete(ctx, key, shared)
}

// failingStore refuses all writes, for testing that failed persistence leaves
// the in-memory state untouched.
type failingStore struct {
	kvstore.Store
}

var errBackendDown = errors.New("backend down")

func (s *failingStore) Set(ctx context.Context, key, value string, shared bool) error {
	return errBackendDown
}

func (s *failingStore) Delete(ctx context.Context, key string, shared bool) error {
	return errBackendDown
}

func newTestClient(t *testing.T) (*Client, *countingStore) {
	t.Helper()

	store := &countingStore{Store: kvstore.NewMemoryBackend().ForClient("test-client")}
	c := NewClient(repository.New(store), nil)
	c.Bootstrap(context.Background())
	return c, store
}

func register(t *testing.T, c *Client, username, password string) *model.User {
	t.Helper()

	user, err := c.Register(context.Background(), &model.RegisterRequest{
		Username:        username,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

// =============================================================================
// REGISTER
// =============================================================================

func TestRegister_Success(t *testing.T) {
	c, _ := newTestClient(t)

	user := register(t, c, "alice", "secret")

	if user.ID == "" {
		t.Error("expected a generated id")
	}
	if user.AvatarURL != "https://api.dicebear.com/7.x/avataaars/svg?seed=alice" {
		t.Errorf("avatar = %q, want dicebear url seeded with username", user.AvatarURL)
	}
	if got := c.CurrentUser(); got == nil || got.Username != "alice" {
		t.Errorf("expected alice to be logged in after register, got %v", got)
	}
	if got := c.Screen(); got != ScreenHome {
		t.Errorf("screen = %q, want %q", got, ScreenHome)
	}
	if friends := c.Friends(); len(friends) != 0 {
		t.Errorf("new account has %d friends, want 0", len(friends))
	}
}

func TestRegister_ValidationOrder(t *testing.T) {
	c, store := newTestClient(t)
	register(t, c, "alice", "secret")
	writesAfterSetup := store.sets

	// Mismatch wins over a too-short username: mismatch is checked first.
	_, err := c.Register(context.Background(), &model.RegisterRequest{
		Username: "al", Password: "a", ConfirmPassword: "b",
	})
	if !errors.Is(err, model.ErrPasswordMismatch) {
		t.Errorf("mismatch + short username: got %v, want ErrPasswordMismatch", err)
	}

	_, err = c.Register(context.Background(), &model.RegisterRequest{
		Username: "al", Password: "a", ConfirmPassword: "a",
	})
	if !errors.Is(err, model.ErrUsernameTooShort) {
		t.Errorf("short username: got %v, want ErrUsernameTooShort", err)
	}

	_, err = c.Register(context.Background(), &model.RegisterRequest{
		Username: "alice", Password: "other", ConfirmPassword: "other",
	})
	if !errors.Is(err, model.ErrUsernameTaken) {
		t.Errorf("duplicate username: got %v, want ErrUsernameTaken", err)
	}

	if store.sets != writesAfterSetup {
		t.Errorf("rejected registrations wrote to storage: %d extra writes", store.sets-writesAfterSetup)
	}
	if got := c.CurrentUser(); got == nil || got.Username != "alice" {
		t.Error("rejected registration disturbed the existing session")
	}
}

func TestRegister_UsernameMatchIsCaseSensitive(t *testing.T) {
	c, _ := newTestClient(t)
	register(t, c, "alice", "secret")

	if _, err := c.Register(context.Background(), &model.RegisterRequest{
		Username: "Alice", Password: "x", ConfirmPassword: "x",
	}); err != nil {
		t.Errorf("exact-match duplicate check rejected a different casing: %v", err)
	}
}

func TestRegister_StorageFailureLeavesStateUntouched(t *testing.T) {
	store := &failingStore{Store: kvstore.NewMemoryBackend().ForClient("test-client")}
	c := NewClient(repository.New(store), nil)
	c.Bootstrap(context.Background())

	_, err := c.Register(context.Background(), &model.RegisterRequest{
		Username: "alice", Password: "secret", ConfirmPassword: "secret",
	})
	if !errors.Is(err, model.ErrStorageUnavailable) {
		t.Fatalf("got %v, want ErrStorageUnavailable", err)
	}

	if c.CurrentUser() != nil {
		t.Error("failed register left a session behind")
	}
	if got := c.Screen(); got != ScreenLogin {
		t.Errorf("screen = %q, want %q after failed register", got, ScreenLogin)
	}
}

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

func TestLogin_Success(t *testing.T) {
	c, _ := newTestClient(t)
	register(t, c, "alice", "secret")
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	user, err := c.Login(context.Background(), &model.LoginRequest{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}
	if got := c.Screen(); got != ScreenHome {
		t.Errorf("screen = %q, want %q", got, ScreenHome)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	c, _ := newTestClient(t)
	register(t, c, "alice", "secret")
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, errUnknown := c.Login(context.Background(), &model.LoginRequest{Username: "nobody", Password: "secret"})
	_, errWrongPw := c.Login(context.Background(), &model.LoginRequest{Username: "alice", Password: "wrong"})

	if !errors.Is(errUnknown, model.ErrInvalidCredentials) {
		t.Errorf("unknown username: got %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPw, model.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Error("unknown-user and wrong-password errors differ; they must not leak which usernames exist")
	}
}

func TestLogin_RestoresFriendList(t *testing.T) {
	c, _ := newTestClient(t)
	register(t, c, "bob", "pw")
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	register(t, c, "alice", "secret")
	if _, err := c.AddFriend(context.Background(), "bob"); err != nil {
		t.Fatalf("add friend: %v", err)
	}

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if friends := c.Friends(); len(friends) != 0 {
		t.Fatalf("friends visible after logout: %d", len(friends))
	}

	if _, err := c.Login(context.Background(), &model.LoginRequest{Username: "alice", Password: "secret"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	friends := c.Friends()
	if len(friends) != 1 || friends[0].Username != "bob" {
		t.Errorf("friends after login = %v, want [bob]", friends)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	c, _ := newTestClient(t)

	if err := c.Logout(context.Background()); err != nil {
		t.Errorf("logout while logged out: %v", err)
	}
	if got := c.Screen(); got != ScreenLogin {
		t.Errorf("screen = %q, want %q", got, ScreenLogin)
	}
}

// =============================================================================
// SESSION PERSISTENCE ACROSS RESTART
// =============================================================================

func TestBootstrap_ResumesStoredSession(t *testing.T) {
	backend := kvstore.NewMemoryBackend()

	c1 := NewClient(repository.New(backend.ForClient("c1")), nil)
	c1.Bootstrap(context.Background())
	register(t, c1, "alice", "secret")

	// Same client id, fresh process.
	c2 := NewClient(repository.New(backend.ForClient("c1")), nil)
	c2.Bootstrap(context.Background())

	if got := c2.CurrentUser(); got == nil || got.Username != "alice" {
		t.Errorf("resumed session = %v, want alice", got)
	}
	if got := c2.Screen(); got != ScreenHome {
		t.Errorf("screen = %q, want %q", got, ScreenHome)
	}
}

func TestBootstrap_SessionIsPerClient(t *testing.T) {
	backend := kvstore.NewMemoryBackend()

	c1 := NewClient(repository.New(backend.ForClient("c1")), nil)
	c1.Bootstrap(context.Background())
	register(t, c1, "alice", "secret")

	// Different client id: sees the shared catalog and users, not the session.
	c2 := NewClient(repository.New(backend.ForClient("c2")), nil)
	c2.Bootstrap(context.Background())

	if c2.CurrentUser() != nil {
		t.Error("session leaked across client namespaces")
	}
	if got := c2.Screen(); got != ScreenLogin {
		t.Errorf("screen = %q, want %q", got, ScreenLogin)
	}

	// But alice exists in the shared collection, so the other client can log in.
	if _, err := c2.Login(context.Background(), &model.LoginRequest{Username: "alice", Password: "secret"}); err != nil {
		t.Errorf("login from another client: %v", err)
	}
}

// =============================================================================
// PUBLISH GAME
// =============================================================================

func TestPublishGame_Success(t *testing.T) {
	c, _ := newTestClient(t)
	alice := register(t, c, "alice", "secret")

	game, err := c.PublishGame(context.Background(), &model.GameForm{
		Title:       "Space Runner",
		Description: "Run through space",
		Price:       "500",
		Screenshots: " a.png, b.png ,, c.png ",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if game.Author != "alice" || game.AuthorID != alice.ID {
		t.Errorf("author snapshot = %q/%q, want alice/%s", game.Author, game.AuthorID, alice.ID)
	}
	if game.Rating != 0 || game.Reviews != 0 {
		t.Errorf("new game rating=%v reviews=%d, want zeros", game.Rating, game.Reviews)
	}
	want := []string{"a.png", "b.png", "c.png"}
	if len(game.Screenshots) != len(want) {
		t.Fatalf("screenshots = %v, want %v", game.Screenshots, want)
	}
	for i := range want {
		if game.Screenshots[i] != want[i] {
			t.Errorf("screenshots[%d] = %q, want %q", i, game.Screenshots[i], want[i])
		}
	}
	if game.IsFree() {
		t.Error("game with price 500 reported as free")
	}
	if game.PriceValue() != 500 {
		t.Errorf("price value = %v, want 500", game.PriceValue())
	}
}

func TestPublishGame_EmptyPriceMeansFree(t *testing.T) {
	c, _ := newTestClient(t)
	register(t, c, "alice", "secret")

	game, err := c.PublishGame(context.Background(), &model.GameForm{
		Title:       "Freebie",
		Description: "no cost",
		Price:       "",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !game.IsFree() {
		t.Error("empty price should mean free")
	}
	if game.PriceValue() != 0 {
		t.Errorf("price value = %v, want 0", game.PriceValue())
	}
}

func TestPublishGame_Validation(t *testing.T) {
	c, store := newTestClient(t)

	if _, err := c.PublishGame(context.Background(), &model.GameForm{Title: "x", Description: "y"}); !errors.Is(err, model.ErrNotAuthenticated) {
		t.Errorf("logged out publish: got %v, want ErrNotAuthenticated", err)
	}

	register(t, c, "alice", "secret")
	writesAfterSetup := store.sets

	if _, err := c.PublishGame(context.Background(), &model.GameForm{Title: "   ", Description: "y"}); !errors.Is(err, model.ErrMissingTitle) {
		t.Errorf("blank title: got %v, want ErrMissingTitle", err)
	}
	if _, err := c.PublishGame(context.Background(), &model.GameForm{Title: "x", Description: "\t"}); !errors.Is(err, model.ErrMissingDescription) {
		t.Errorf("blank description: got %v, want ErrMissingDescription", err)
	}

	if store.sets != writesAfterSetup {
		t.Errorf("rejected publishes wrote to storage: %d extra writes", store.sets-writesAfterSetup)
	}
	if games := c.Games(); len(games) != 0 {
		t.Errorf("rejected publishes appended to catalog: %d games", len(games))
	}
}

func TestPublishedGameIsSharedAcrossClients(t *testing.T) {
	backend := kvstore.NewMemoryBackend()

	c1 := NewClient(repository.New(backend.ForClient("c1")), nil)
	c1.Bootstrap(context.Background())
	register(t, c1, "alice", "secret")
	if _, err := c1.PublishGame(context.Background(), &model.GameForm{Title: "Space Runner", Description: "d"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	c2 := NewClient(repository.New(backend.ForClient("c2")), nil)
	c2.Bootstrap(context.Background())

	games := c2.Games()
	if len(games) != 1 || games[0].Title != "Space Runner" {
		t.Errorf("catalog from another client = %v, want [Space Runner]", games)
	}
}

// =============================================================================
// ADD FRIEND
// =============================================================================

func TestAddFriend_Checks(t *testing.T) {
	c, store := newTestClient(t)
	register(t, c, "bob", "pw")
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	register(t, c, "alice", "secret")

	if _, err := c.AddFriend(context.Background(), "ghost"); !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("unknown target: got %v, want ErrUserNotFound", err)
	}
	if _, err := c.AddFriend(context.Background(), "alice"); !errors.Is(err, model.ErrSelfFriend) {
		t.Errorf("self friend: got %v, want ErrSelfFriend", err)
	}

	friend, err := c.AddFriend(context.Background(), "bob")
	if err != nil {
		t.Fatalf("add friend: %v", err)
	}
	if friend.Username != "bob" || friend.ID == "" {
		t.Errorf("friend snapshot = %+v", friend)
	}

	writesAfterAdd := store.sets
	if _, err := c.AddFriend(context.Background(), "bob"); !errors.Is(err, model.ErrAlreadyFriends) {
		t.Errorf("duplicate friend: got %v, want ErrAlreadyFriends", err)
	}
	if store.sets != writesAfterAdd {
		t.Error("rejected duplicate add wrote to storage")
	}
	if friends := c.Friends(); len(friends) != 1 {
		t.Errorf("friend list length = %d, want 1", len(friends))
	}
}

func TestAddFriend_RequiresSession(t *testing.T) {
	c, _ := newTestClient(t)

	if _, err := c.AddFriend(context.Background(), "bob"); !errors.Is(err, model.ErrNotAuthenticated) {
		t.Errorf("got %v, want ErrNotAuthenticated", err)
	}
}

func TestAddFriend_StorageFailureLeavesListUntouched(t *testing.T) {
	backend := kvstore.NewMemoryBackend()
	good := backend.ForClient("c1")

	c := NewClient(repository.New(good), nil)
	c.Bootstrap(context.Background())
	register(t, c, "bob", "pw")
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	register(t, c, "alice", "secret")

	// Swap in a failing store underneath fresh repositories but keep the
	// loaded state: rebuild the client against the broken store and adopt the
	// session it had.
	broken := NewClient(repository.New(&failingStore{Store: good}), nil)
	broken.Bootstrap(context.Background())
	if broken.CurrentUser() == nil {
		t.Fatal("expected resumed session")
	}

	if _, err := broken.AddFriend(context.Background(), "bob"); !errors.Is(err, model.ErrStorageUnavailable) {
		t.Fatalf("got %v, want ErrStorageUnavailable", err)
	}
	if friends := broken.Friends(); len(friends) != 0 {
		t.Errorf("failed add mutated the in-memory list: %v", friends)
	}
}

// =============================================================================
// CATALOG QUERIES
// =============================================================================

func TestFilteredGames(t *testing.T) {
	c, _ := newTestClient(t)
	register(t, c, "alice", "secret")
	for _, title := range []string{"Space Runner", "Dungeon Crawl", "space station"} {
		if _, err := c.PublishGame(context.Background(), &model.GameForm{Title: title, Description: "d"}); err != nil {
			t.Fatalf("publish %s: %v", title, err)
		}
	}

	if got := c.FilteredGames("SPACE"); len(got) != 2 {
		t.Errorf("case-insensitive filter matched %d, want 2", len(got))
	}
	if got := c.FilteredGames(""); len(got) != 3 {
		t.Errorf("empty query matched %d, want all 3", len(got))
	}
	if got := c.FilteredGames("zelda"); len(got) != 0 {
		t.Errorf("no-match query matched %d, want 0", len(got))
	}
}

func TestMyGames_EmptyWhenLoggedOut(t *testing.T) {
	c, _ := newTestClient(t)
	register(t, c, "alice", "secret")
	if _, err := c.PublishGame(context.Background(), &model.GameForm{Title: "g", Description: "d"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if got := c.MyGames(); len(got) != 0 {
		t.Errorf("my games while logged out = %d, want 0", len(got))
	}
}

func TestRecentGames_NewestFirst(t *testing.T) {
	c, _ := newTestClient(t)
	register(t, c, "alice", "secret")
	for _, title := range []string{"first", "second", "third"} {
		if _, err := c.PublishGame(context.Background(), &model.GameForm{Title: title, Description: "d"}); err != nil {
			t.Fatalf("publish %s: %v", title, err)
		}
	}

	got := c.RecentGames(2)
	if len(got) != 2 {
		t.Fatalf("recent(2) returned %d games", len(got))
	}
	if got[0].Title != "third" || got[1].Title != "second" {
		t.Errorf("recent order = [%s %s], want [third second]", got[0].Title, got[1].Title)
	}
}
