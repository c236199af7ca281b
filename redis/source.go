package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/flumehq/flume/conduit"
	apperrors "github.com/flumehq/flume/errors"
)

// ListSource returns a source stage that pops items off the Redis list at
// key, one LPOP per downstream pull, and finishes when the list is empty.
// The client is borrowed, not owned: the registered cleanup only guards
// against pulls after teardown and never closes the client.
//
// Pop failures other than an empty list end the stream with a connection
// error as the result value.
func ListSource(ctx context.Context, client *Client, key string) *conduit.Pipe {
	return conduit.DeferSource(func() conduit.Step {
		src := &listSource{ctx: ctx, client: client, key: key}
		return &conduit.RegisterCleanup{
			Action: func() { src.done = true },
			Next:   src.next,
		}
	})
}

type listSource struct {
	ctx    context.Context
	client *Client
	key    string
	done   bool
}

func (s *listSource) next() conduit.Step {
	if s.done || s.ctx.Err() != nil {
		return &conduit.Done{Result: nil}
	}

	val, err := s.client.LPop(s.ctx, s.key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return &conduit.Done{Result: nil}
		}
		if s.ctx.Err() != nil {
			return &conduit.Done{Result: nil}
		}
		s.client.log.Error("Redis list pop failed", map[string]interface{}{
			"error": err.Error(),
			"key":   s.key,
		})
		return &conduit.Done{Result: apperrors.ConnectionFailed("redis").WithCause(err)}
	}

	return &conduit.HaveOutput{
		Value: val,
		Next:  s.next,
	}
}
