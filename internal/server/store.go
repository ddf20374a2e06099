package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vango-dev/flxrouter/internal/config"
	"github.com/vango-dev/flxrouter/internal/errors"
	"github.com/vango-dev/flxrouter/pkg/routestore"
)

// OpenStore builds the last-route store selected by cfg. The returned
// closer releases the store and any connection it owns.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (routestore.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		store := routestore.NewMemoryStore()
		return store, store.Close, nil

	case config.BackendRedis:
		opts := []routestore.RedisStoreOption{routestore.WithRedisPrefix(cfg.Redis.Prefix)}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, routestore.WithRedisTTL(cfg.Redis.TTL))
		}
		store, client, err := routestore.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err != nil {
			return nil, nil, unavailable("redis", cfg.Redis.Addr, err)
		}
		return store, func() error {
			_ = store.Close()
			return client.Close()
		}, nil

	case config.BackendSQLite:
		db, err := sql.Open("sqlite3", cfg.SQLite.Path)
		if err != nil {
			return nil, nil, unavailable("sqlite", cfg.SQLite.Path, err)
		}
		store := routestore.NewSQLStore(db,
			routestore.WithSQLDialect(routestore.DialectSQLite),
			routestore.WithSQLTableName(cfg.SQLite.Table),
		)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, unavailable("sqlite", cfg.SQLite.Path, err)
		}
		return store, func() error {
			_ = store.Close()
			return db.Close()
		}, nil

	case config.BackendS3:
		client := newS3Client(cfg.S3)
		store := routestore.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix)
		return store, store.Close, nil
	}

	return nil, nil, errors.New(errors.CodeConfigInvalid).
		WithDetail(fmt.Sprintf("Unknown store backend %q.", cfg.Backend))
}

func unavailable(backend, target string, err error) error {
	return errors.New(errors.CodeStoreUnavailable).
		WithDetail(fmt.Sprintf("Could not open the %s store at %s.", backend, target)).
		Wrap(err)
}

// newS3Client builds a client from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
// and AWS_SESSION_TOKEN. A custom endpoint switches to path-style
// addressing for S3-compatible services.
func newS3Client(cfg config.S3Config) *s3.Client {
	creds := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})

	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(creds),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}
