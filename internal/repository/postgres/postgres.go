package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/forumvotes/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB owns the GORM handle and hands out repositories bound to it.
type DB struct {
	Gorm *gorm.DB
}

// New connects to the Postgres database described by dsn.
func New(dsn string) (*DB, error) {
	g, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &DB{Gorm: g}, nil
}

// Migrate creates or updates the forum tables.
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.Gorm.WithContext(ctx).AutoMigrate(
		&userModel{},
		&postModel{},
		&commentModel{},
		&voteModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Users() domain.UserRepository {
	return &userRepo{db: d.Gorm}
}

func (d *DB) Posts() domain.PostRepository {
	return &postRepo{db: d.Gorm}
}

func (d *DB) Votes() domain.VoteRepository {
	return &voteRepo{db: d.Gorm}
}

// Replace truncates every table and loads snap in one transaction, then
// moves the id sequences past the largest imported id.
func (d *DB) Replace(ctx context.Context, snap *domain.Snapshot) error {
	return d.Gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("TRUNCATE votes, comments, posts, users RESTART IDENTITY").Error; err != nil {
			return fmt.Errorf("truncate: %w", err)
		}

		if len(snap.Users) > 0 {
			users := make([]userModel, len(snap.Users))
			for i := range snap.Users {
				users[i] = toUserModel(&snap.Users[i])
			}
			if err := tx.Create(&users).Error; err != nil {
				return fmt.Errorf("insert users: %w", err)
			}
		}

		if len(snap.Posts) > 0 {
			posts := make([]postModel, len(snap.Posts))
			for i := range snap.Posts {
				posts[i] = toPostModel(&snap.Posts[i])
			}
			if err := tx.Create(&posts).Error; err != nil {
				return fmt.Errorf("insert posts: %w", err)
			}
		}

		if len(snap.Votes) > 0 {
			votes := make([]voteModel, len(snap.Votes))
			for i := range snap.Votes {
				votes[i] = toVoteModel(&snap.Votes[i])
			}
			if err := tx.Create(&votes).Error; err != nil {
				return fmt.Errorf("insert votes: %w", err)
			}
		}

		for _, table := range []string{"users", "posts", "votes"} {
			err := tx.Exec(fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
				table)).Error
			if err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
