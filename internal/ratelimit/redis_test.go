package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func intCmd(val int64, err error) *redis.IntCmd {
	cmd := redis.NewIntCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(val)
	}
	return cmd
}

func boolCmd(err error) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(true)
	}
	return cmd
}

func TestRedis_Allow(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		count       int64
		incrErr     error
		expireErr   error
		wantAllowed bool
		wantErr     bool
	}{
		{
			name:        "first attempt sets expiry and allows",
			count:       1,
			wantAllowed: true,
		},
		{
			name:        "under limit allows",
			count:       5,
			wantAllowed: true,
		},
		{
			name:        "over limit denies",
			count:       6,
			wantAllowed: false,
		},
		{
			name:    "incr error surfaces",
			incrErr: errors.New("redis down"),
			wantErr: true,
		},
		{
			name:      "expire error surfaces",
			count:     1,
			expireErr: errors.New("redis down"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := NewMockRedisClient(ctrl)
			client.EXPECT().
				Incr(gomock.Any(), "ratelimit:alice").
				Return(intCmd(tt.count, tt.incrErr))
			if tt.incrErr == nil && tt.count == 1 {
				client.EXPECT().
					Expire(gomock.Any(), "ratelimit:alice", 15*time.Minute).
					Return(boolCmd(tt.expireErr))
			}

			limiter := NewRedis(client, 5, 15*time.Minute)
			allowed, err := limiter.Allow(ctx, "alice")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, allowed)
		})
	}
}
