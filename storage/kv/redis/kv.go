// Package rediskv backs key-value slots with Redis, for deployments where
// the portal state must survive the host. Calls run through a circuit
// breaker so a flapping Redis degrades to errors instead of hangs.
package rediskv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/trezcool/darasa/core"
)

type Store struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
	log    core.Logger
}

var _ core.KVStore = (*Store)(nil) // interface compliance check

func Open(conf core.RedisConfig, log core.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	s := &Store{client: client, log: log}
	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "Redis-KV",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// a missing key is a valid answer, not a Redis failure
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", name, from.String()+" -> "+to.String())
		},
	})
	return s, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Get(ctx, key).Bytes()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrKeyNotFound
		}
		return nil, err
	}
	return res.([]byte), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, key, value, 0).Err()
	})
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, key).Err()
	})
	return err
}
