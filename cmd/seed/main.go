// Command seed loads events, stalls and accounts from a YAML file so a fresh
// database can be scanned against.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vietanh2810/event-attendance-api/cmd/app"
	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
	"github.com/vietanh2810/event-attendance-api/internal/config"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/logger"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
	"github.com/vietanh2810/event-attendance-api/internal/repository/dao"
	"github.com/vietanh2810/event-attendance-api/internal/service"
)

type seedFile struct {
	Events     []seedEvent     `mapstructure:"events"`
	Users      []seedUser      `mapstructure:"users"`
	Volunteers []seedVolunteer `mapstructure:"volunteers"`
}

type seedEvent struct {
	Name          string      `mapstructure:"name"`
	AllowFeedback bool        `mapstructure:"allow_feedback"`
	AllowVoting   bool        `mapstructure:"allow_voting"`
	Active        bool        `mapstructure:"active"`
	Stalls        []seedStall `mapstructure:"stalls"`
}

type seedStall struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

type seedUser struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Role     string `mapstructure:"role"`
}

type seedVolunteer struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

func main() {
	configPath := flag.String("config", "./cmd/app/config.yml", "application config")
	seedPath := flag.String("file", "./cmd/seed/seed.yml", "seed data")
	flag.Parse()

	if err := run(*configPath, *seedPath); err != nil {
		panic(err)
	}
}

func run(configPath, seedPath string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	v := viper.New()
	v.SetConfigFile(seedPath)
	if err = v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	var seed seedFile
	if err = v.Unmarshal(&seed); err != nil {
		return fmt.Errorf("v.Unmarshal -> %w", err)
	}

	postgresDB, err := app.OpenDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	ctx := context.Background()
	events := repository.NewEventRepository(dao.NewEventDAO(postgresDB))
	stalls := repository.NewStallRepository(dao.NewStallDAO(postgresDB))
	registry := service.NewRegistryService(events, broadcast.Nop{})
	auth := service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(postgresDB)))

	for _, u := range seed.Users {
		_, err = auth.Register(ctx, domain.User{
			Email:    u.Email,
			Password: u.Password,
			Name:     u.Name,
			Role:     domain.Role(u.Role),
			Active:   true,
		})
		if err != nil && !errors.Is(err, service.ErrUserEmailExists) {
			return fmt.Errorf("auth.Register(%s) -> %w", u.Email, err)
		}
	}

	for _, vol := range seed.Volunteers {
		_, err = auth.RegisterVolunteer(ctx, domain.Volunteer{
			Email:    vol.Email,
			Password: vol.Password,
			Name:     vol.Name,
			Active:   true,
		})
		if err != nil && !errors.Is(err, service.ErrUserEmailExists) {
			return fmt.Errorf("auth.RegisterVolunteer(%s) -> %w", vol.Email, err)
		}
	}

	return seedEvents(ctx, events, stalls, registry, seed.Events)
}

type eventStore interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByName(ctx context.Context, name string) (domain.Event, error)
}

type stallStore interface {
	Create(ctx context.Context, stall domain.Stall) (domain.Stall, error)
	FindByEventAndName(ctx context.Context, eventID uint, name string) (domain.Stall, error)
}

type activator interface {
	Activate(ctx context.Context, id uint) (domain.Event, error)
}

// seedEvents creates the events and stalls that do not exist yet, matched by
// name, so the seed can be rerun against the same database.
func seedEvents(ctx context.Context, events eventStore, stalls stallStore, registry activator, specs []seedEvent) error {
	for _, e := range specs {
		event, err := events.FindByName(ctx, e.Name)
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			event, err = events.Create(ctx, domain.Event{
				Name:          e.Name,
				AllowFeedback: e.AllowFeedback,
				AllowVoting:   e.AllowVoting,
			})
			if err != nil {
				return fmt.Errorf("events.Create(%s) -> %w", e.Name, err)
			}
		case err != nil:
			return fmt.Errorf("events.FindByName(%s) -> %w", e.Name, err)
		}

		created := 0
		for _, st := range e.Stalls {
			_, err = stalls.FindByEventAndName(ctx, event.ID, st.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, repository.ErrStallNotFound) {
				return fmt.Errorf("stalls.FindByEventAndName(%s) -> %w", st.Name, err)
			}
			if _, err = stalls.Create(ctx, domain.Stall{Name: st.Name, Description: st.Description, EventID: event.ID}); err != nil {
				return fmt.Errorf("stalls.Create(%s) -> %w", st.Name, err)
			}
			created++
		}

		if e.Active && !event.Active {
			if _, err = registry.Activate(ctx, event.ID); err != nil {
				return fmt.Errorf("registry.Activate(%d) -> %w", event.ID, err)
			}
		}

		zap.L().Info("seeded event", zap.Uint("event_id", event.ID), zap.String("name", event.Name), zap.Int("new_stalls", created))
	}

	return nil
}
