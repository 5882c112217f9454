package app

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"gamehub/internal/model"
	"gamehub/internal/queue"
	"gamehub/internal/repository"
)

// Screen identifies the view the client is currently on. The presentation
// layer renders it; the state machine only tracks transitions.
type Screen string

const (
	ScreenLogin    Screen = "login"
	ScreenRegister Screen = "register"
	ScreenHome     Screen = "home"
	ScreenFriends  Screen = "friends"
	ScreenMyGames  Screen = "myGames"
	ScreenAddGame  Screen = "addGame"
)

// Client is the application state machine for one connected client: the
// current session, the loaded user and game collections, the session user's
// friend list and the active screen. Operations validate, persist through
// the repositories, and only then mutate the in-memory state, so a failed
// write never leaves half-applied state behind.
//
// The mutex serializes operations per client. That closes the
// read-modify-write window between two rapid calls from the same client
// (e.g. double add-friend); it cannot close the cross-client races on
// username uniqueness or concurrent friend-list writers, because the storage
// contract has no conditional write. Those remain last-writer-wins.
type Client struct {
	mu    sync.Mutex
	boot  sync.Once
	repos *repository.Repositories

	// publisher is optional; domain events are best-effort and never affect
	// the outcome of an operation.
	publisher queue.Publisher

	session *model.User
	users   []model.User
	games   []model.Game
	friends []model.Friend
	screen  Screen
}

// NewClient creates an empty state machine. Call Bootstrap before use.
func NewClient(repos *repository.Repositories, publisher queue.Publisher) *Client {
	return &Client{
		repos:     repos,
		publisher: publisher,
		friends:   []model.Friend{},
		screen:    ScreenLogin,
	}
}

// Bootstrap runs the cold-start sequence: load users and games (failures are
// logged and degrade to empty collections), then adopt a stored session if
// one exists. It runs at most once per Client.
func (c *Client) Bootstrap(ctx context.Context) {
	c.boot.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		users, err := c.repos.Users.LoadAll(ctx)
		if err != nil {
			log.Printf("[Client] loading users failed, starting empty: %v", err)
			users = []model.User{}
		}
		c.users = users

		games, err := c.repos.Games.LoadAll(ctx)
		if err != nil {
			log.Printf("[Client] loading games failed, starting empty: %v", err)
			games = []model.Game{}
		}
		c.games = games

		session, err := c.repos.Session.Load(ctx)
		if err != nil {
			// Absent or unreadable session both mean "not logged in".
			c.screen = ScreenLogin
			return
		}
		c.session = session
		c.screen = ScreenHome
		c.friends, _ = c.repos.Friends.Load(ctx, session.ID)
	})
}

// Register creates a new account and logs it in.
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Password != req.ConfirmPassword {
		return nil, model.ErrPasswordMismatch
	}
	if len(req.Username) < 3 {
		return nil, model.ErrUsernameTooShort
	}
	for i := range c.users {
		if c.users[i].Username == req.Username {
			return nil, model.ErrUsernameTaken
		}
	}

	user := &model.User{
		ID:        newID(),
		Username:  req.Username,
		Password:  req.Password,
		AvatarURL: model.AvatarURL(req.Username),
		CreatedAt: time.Now().UTC(),
	}

	if err := c.repos.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := c.repos.Session.Save(ctx, user); err != nil {
		return nil, err
	}

	c.users = append(c.users, *user)
	c.session = user
	c.friends = []model.Friend{}
	c.screen = ScreenHome

	c.publish(ctx, queue.NewUserRegisteredEvent(user.ID))
	return user, nil
}

// Login authenticates against the loaded user collection. An unknown
// username and a wrong password fail identically so the response does not
// leak which usernames exist.
func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var user *model.User
	for i := range c.users {
		if c.users[i].Username == req.Username && c.users[i].Password == req.Password {
			u := c.users[i]
			user = &u
			break
		}
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := c.repos.Session.Save(ctx, user); err != nil {
		return nil, err
	}

	c.session = user
	c.friends, _ = c.repos.Friends.Load(ctx, user.ID)
	c.screen = ScreenHome
	return user, nil
}

// Logout clears the stored session pointer and the in-memory session.
// Idempotent: logging out while logged out is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repos.Session.Clear(ctx); err != nil {
		return err
	}

	c.session = nil
	c.friends = []model.Friend{}
	c.screen = ScreenLogin
	return nil
}

// PublishGame adds a game to the shared catalog, authored by the session
// user. The author fields are snapshotted at publish time.
func (c *Client) PublishGame(ctx context.Context, form *model.GameForm) (*model.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, model.ErrNotAuthenticated
	}
	if strings.TrimSpace(form.Title) == "" {
		return nil, model.ErrMissingTitle
	}
	if strings.TrimSpace(form.Description) == "" {
		return nil, model.ErrMissingDescription
	}

	game := &model.Game{
		ID:          newID(),
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		CoverImage:  form.CoverImage,
		Screenshots: model.ParseScreenshots(form.Screenshots),
		LicenseLink: form.LicenseLink,
		FreeLink:    form.FreeLink,
		Author:      c.session.Username,
		AuthorID:    c.session.ID,
		CreatedAt:   time.Now().UTC(),
		Rating:      0,
		Reviews:     0,
	}

	if err := c.repos.Games.Save(ctx, game); err != nil {
		return nil, err
	}

	c.games = append(c.games, *game)
	c.screen = ScreenHome

	c.publish(ctx, queue.NewGamePublishedEvent(game.ID, game.AuthorID, game.CreatedAt.Unix()))
	return game, nil
}

// AddFriend appends a snapshot of the target user to the session user's
// friend list and persists the whole list.
func (c *Client) AddFriend(ctx context.Context, username string) (*model.Friend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, model.ErrNotAuthenticated
	}

	var target *model.User
	for i := range c.users {
		if c.users[i].Username == username {
			target = &c.users[i]
			break
		}
	}
	if target == nil {
		return nil, model.ErrUserNotFound
	}
	if target.ID == c.session.ID {
		return nil, model.ErrSelfFriend
	}
	for i := range c.friends {
		if c.friends[i].ID == target.ID {
			return nil, model.ErrAlreadyFriends
		}
	}

	friend := model.FriendSnapshot(target)
	updated := append(append([]model.Friend{}, c.friends...), friend)

	if err := c.repos.Friends.Save(ctx, c.session.ID, updated); err != nil {
		return nil, err
	}

	c.friends = updated

	c.publish(ctx, queue.NewFriendAddedEvent(c.session.ID, friend.ID))
	return &friend, nil
}

// FilteredGames returns catalog entries whose title contains the query,
// case-insensitively. An empty query returns the whole catalog.
func (c *Client) FilteredGames(query string) []model.Game {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := strings.ToLower(query)
	out := make([]model.Game, 0, len(c.games))
	for _, g := range c.games {
		if strings.Contains(strings.ToLower(g.Title), q) {
			out = append(out, g)
		}
	}
	return out
}

// MyGames returns the games authored by the session user. Empty when logged
// out.
func (c *Client) MyGames() []model.Game {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return []model.Game{}
	}
	out := make([]model.Game, 0)
	for _, g := range c.games {
		if g.AuthorID == c.session.ID {
			out = append(out, g)
		}
	}
	return out
}

// RecentGames returns up to limit games, newest first.
func (c *Client) RecentGames(limit int) []model.Game {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := append([]model.Game{}, c.games...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Games returns a copy of the loaded catalog.
func (c *Client) Games() []model.Game {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Game{}, c.games...)
}

// CurrentUser returns the session user, or nil when logged out.
func (c *Client) CurrentUser() *model.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	u := *c.session
	return &u
}

// Friends returns a copy of the session user's friend list.
func (c *Client) Friends() []model.Friend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Friend{}, c.friends...)
}

// Screen returns the active screen.
func (c *Client) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// SetScreen records a navigation. Pure view state; no validation beyond what
// the presentation layer enforces.
func (c *Client) SetScreen(s Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen = s
}

// publish sends a domain event if a publisher is wired. Failures are logged
// and swallowed; events never change the outcome of an operation.
func (c *Client) publish(ctx context.Context, event queue.Event) {
	if c.publisher == nil {
		return
	}
	if _, err := c.publisher.Publish(ctx, queue.StreamCatalog, event); err != nil {
		log.Printf("[Client] publish %s failed: %v", event.Type, err)
	}
}
