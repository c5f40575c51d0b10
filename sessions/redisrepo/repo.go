// Package redisrepo backs sessions.Repo with redis so pending authorizations
// survive restarts and are shared between instances. Keys carry a TTL
// matching the auth-code timeout, so expired sessions disappear without a
// sweeper.
package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/jrsteele09/go-oidc-provider/sessions"
)

const (
	sessionKeyPrefix = "authsession:"
	codeKeyPrefix    = "authcode:"
)

var _ sessions.Repo = (*Repo)(nil)

type Repo struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) (*Repo, error) {
	if client == nil {
		return nil, errors.New("[redisrepo.New] redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("[redisrepo.New] ttl must be positive")
	}
	return &Repo{client: client, ttl: ttl}, nil
}

func (r *Repo) Upsert(ctx context.Context, session *sessions.SessionData) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "[redisrepo.Upsert] marshal session")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, data, r.ttl)
	if session.AuthCode != "" {
		pipe.Set(ctx, codeKeyPrefix+session.AuthCode, session.ID, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "[redisrepo.Upsert] redis set")
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*sessions.SessionData, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[redisrepo.Get] redis get")
	}

	var session sessions.SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrap(err, "[redisrepo.Get] unmarshal session")
	}
	return &session, nil
}

func (r *Repo) GetByCode(ctx context.Context, code string) (*sessions.SessionData, error) {
	id, err := r.client.Get(ctx, codeKeyPrefix+code).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[redisrepo.GetByCode] redis get")
	}
	return r.Get(ctx, id)
}

// ConsumeByCode consumes the code-to-session mapping with GETDEL, so redis
// hands the session id to exactly one of any concurrent callers; the session
// body is then drained the same way.
func (r *Repo) ConsumeByCode(ctx context.Context, code string) (*sessions.SessionData, error) {
	id, err := r.client.GetDel(ctx, codeKeyPrefix+code).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[redisrepo.ConsumeByCode] redis getdel code")
	}

	data, err := r.client.GetDel(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[redisrepo.ConsumeByCode] redis getdel session")
	}

	var session sessions.SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrap(err, "[redisrepo.ConsumeByCode] unmarshal session")
	}
	return &session, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	keys := []string{sessionKeyPrefix + id}
	if session.AuthCode != "" {
		keys = append(keys, codeKeyPrefix+session.AuthCode)
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "[redisrepo.Delete] redis del")
	}
	return nil
}
