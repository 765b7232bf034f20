package seed

import (
	"context"
	"embed"
	"fmt"
	"os"
	"time"

	"epicfails/internal/models"
	"epicfails/internal/repository"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios/*.yaml
var builtinScenarios embed.FS

// Scenario is a declarative data set. Users and posts are referenced by key.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Users       []ScenarioUser     `yaml:"users"`
	Posts       []ScenarioPost     `yaml:"posts"`
	Likes       []ScenarioRelation `yaml:"likes"`
	Bookmarks   []ScenarioRelation `yaml:"bookmarks"`
	Comments    []ScenarioComment  `yaml:"comments"`
	Duels       []ScenarioDuel     `yaml:"duels"`
}

type ScenarioUser struct {
	Key       string   `yaml:"key"`
	Interests []string `yaml:"interests"`
}

type ScenarioPost struct {
	Key      string `yaml:"key"`
	Author   string `yaml:"author"`
	Category string `yaml:"category"`
	Title    string `yaml:"title"`
}

type ScenarioRelation struct {
	User string `yaml:"user"`
	Post string `yaml:"post"`
}

type ScenarioComment struct {
	User string `yaml:"user"`
	Post string `yaml:"post"`
	Text string `yaml:"text"`
}

type ScenarioDuel struct {
	By       string `yaml:"by"`
	Category string `yaml:"category"`
	Post1    string `yaml:"post1"`
	Post2    string `yaml:"post2"`
	Winner   string `yaml:"winner"`
	// Times repeats the duel; zero means once.
	Times int `yaml:"times"`
}

// Fixture maps scenario keys to the records ApplyScenario created.
type Fixture struct {
	Users map[string]*models.User
	Posts map[string]*models.Post
}

// ParseScenario decodes a YAML scenario and checks its references.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return &sc, nil
}

// LoadScenario reads a scenario from a file path, or from the built-in set
// when name matches scenarios/<name>.yaml.
func LoadScenario(name string) (*Scenario, error) {
	data, err := builtinScenarios.ReadFile("scenarios/" + name + ".yaml")
	if err != nil {
		if data, err = os.ReadFile(name); err != nil {
			return nil, fmt.Errorf("scenario %q not found: %w", name, err)
		}
	}
	return ParseScenario(data)
}

func (sc *Scenario) validate() error {
	users := make(map[string]bool, len(sc.Users))
	for _, u := range sc.Users {
		if u.Key == "" || users[u.Key] {
			return fmt.Errorf("user key %q empty or repeated", u.Key)
		}
		users[u.Key] = true
	}
	posts := make(map[string]bool, len(sc.Posts))
	for _, p := range sc.Posts {
		if p.Key == "" || posts[p.Key] {
			return fmt.Errorf("post key %q empty or repeated", p.Key)
		}
		if !users[p.Author] {
			return fmt.Errorf("post %q: unknown author %q", p.Key, p.Author)
		}
		if _, ok := models.ParseCategory(p.Category); !ok {
			return fmt.Errorf("post %q: unknown category %q", p.Key, p.Category)
		}
		posts[p.Key] = true
	}

	check := func(kind, user, post string) error {
		if !users[user] {
			return fmt.Errorf("%s: unknown user %q", kind, user)
		}
		if !posts[post] {
			return fmt.Errorf("%s: unknown post %q", kind, post)
		}
		return nil
	}
	for _, r := range sc.Likes {
		if err := check("like", r.User, r.Post); err != nil {
			return err
		}
	}
	for _, r := range sc.Bookmarks {
		if err := check("bookmark", r.User, r.Post); err != nil {
			return err
		}
	}
	for _, c := range sc.Comments {
		if err := check("comment", c.User, c.Post); err != nil {
			return err
		}
	}
	for _, d := range sc.Duels {
		if err := check("duel", d.By, d.Post1); err != nil {
			return err
		}
		if !posts[d.Post2] {
			return fmt.Errorf("duel: unknown post %q", d.Post2)
		}
		if d.Winner != d.Post1 && d.Winner != d.Post2 {
			return fmt.Errorf("duel: winner %q is not a contender", d.Winner)
		}
		if _, ok := models.ParseCategory(d.Category); !ok {
			return fmt.Errorf("duel: unknown category %q", d.Category)
		}
	}
	return nil
}

// ApplyScenario persists the scenario through f's store. Duels get strictly
// increasing creation times in declaration order.
func (f *Factory) ApplyScenario(ctx context.Context, sc *Scenario) (*Fixture, error) {
	fx := &Fixture{
		Users: make(map[string]*models.User, len(sc.Users)),
		Posts: make(map[string]*models.Post, len(sc.Posts)),
	}

	for _, u := range sc.Users {
		interests := make([]models.Category, 0, len(u.Interests))
		for _, raw := range u.Interests {
			if c, ok := models.ParseCategory(raw); ok {
				interests = append(interests, c)
			}
		}
		key := u.Key
		user, err := f.CreateUser(ctx, func(m *models.User) {
			m.Username = key
			m.Email = key + "@epicfails.test"
			m.AuthToken = "token-" + key
			m.Interests = interests
		})
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", key, err)
		}
		fx.Users[key] = user
	}

	for _, p := range sc.Posts {
		category, _ := models.ParseCategory(p.Category)
		title := p.Title
		if title == "" {
			title = p.Key
		}
		post, err := f.CreatePost(ctx, fx.Users[p.Author], func(m *models.Post) {
			m.Category = category
			m.Title = title
		})
		if err != nil {
			return nil, fmt.Errorf("post %q: %w", p.Key, err)
		}
		fx.Posts[p.Key] = post
	}

	for _, r := range sc.Likes {
		if err := f.store.Likes.Insert(ctx, fx.Users[r.User].ID, fx.Posts[r.Post].ID); err != nil {
			return nil, fmt.Errorf("like %s/%s: %w", r.User, r.Post, err)
		}
	}
	for _, r := range sc.Bookmarks {
		if err := f.store.Bookmarks.Insert(ctx, fx.Users[r.User].ID, fx.Posts[r.Post].ID); err != nil {
			return nil, fmt.Errorf("bookmark %s/%s: %w", r.User, r.Post, err)
		}
	}
	for _, c := range sc.Comments {
		if _, err := f.CreateComment(ctx, fx.Users[c.User], fx.Posts[c.Post], c.Text); err != nil {
			return nil, fmt.Errorf("comment %s/%s: %w", c.User, c.Post, err)
		}
	}

	at := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for _, d := range sc.Duels {
		category, _ := models.ParseCategory(d.Category)
		times := d.Times
		if times <= 0 {
			times = 1
		}
		for i := 0; i < times; i++ {
			at = at.Add(time.Second)
			duel := &models.Duel{
				UserID:       fx.Users[d.By].ID,
				Category:     category,
				Post1ID:      fx.Posts[d.Post1].ID,
				Post2ID:      fx.Posts[d.Post2].ID,
				WinnerPostID: fx.Posts[d.Winner].ID,
				CreatedAt:    at,
			}
			if err := f.store.Duels.Create(ctx, duel); err != nil {
				return nil, fmt.Errorf("duel %s vs %s: %w", d.Post1, d.Post2, err)
			}
		}
	}

	return fx, nil
}

// ApplyScenario is a convenience wrapper using a fast factory.
func ApplyScenario(ctx context.Context, store *repository.Store, sc *Scenario) (*Fixture, error) {
	return NewFactory(store, Options{SkipBcrypt: true}).ApplyScenario(ctx, sc)
}
