package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/gearstock/console/internal/errs"
	"github.com/gearstock/console/internal/model"
)

type Config struct {
	Addr        string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password    string        `envconfig:"REDIS_PASSWORD"`
	DB          int           `envconfig:"REDIS_DB"`
	TTL         time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	RememberTTL time.Duration `envconfig:"SESSION_REMEMBER_TTL" default:"720h"`
}

// Session is the client-held identity: the bearer token for the lending API
// plus the user derived at login. It is only ever written whole and cleared
// whole.
type Session struct {
	Token    string     `json:"token"`
	User     model.User `json:"user"`
	Remember bool       `json:"remember"`
	IssuedAt int64      `json:"iat"`
}

type Store interface {
	Create(ctx context.Context, s Session) (string, error)
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

type redisStore struct {
	rdb *redis.Client
	cfg Config
}

func NewStore(cfg Config) Store {
	return &redisStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		cfg: cfg,
	}
}

func key(id string) string { return fmt.Sprintf("console:sess:%s", id) }

func (s *redisStore) Create(ctx context.Context, sess Session) (string, error) {
	sess.IssuedAt = time.Now().Unix()
	b, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	ttl := s.cfg.TTL
	if sess.Remember {
		ttl = s.cfg.RememberTTL
	}
	if err := s.rdb.Set(ctx, key(id), b, ttl).Err(); err != nil {
		return "", errors.Wrap(err, "session set")
	}
	return id, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (Session, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, errs.ErrNoSession
		}
		return Session{}, errors.Wrap(err, "session get")
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, errors.Wrap(err, "session decode")
	}
	return sess, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}
