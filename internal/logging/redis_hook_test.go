package logging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeList struct {
	mu      sync.Mutex
	pushed  []string
	trims   [][2]int64
	pushErr error
}

func (f *fakeList) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if f.pushErr != nil {
		cmd.SetErr(f.pushErr)
		return cmd
	}
	for _, v := range values {
		f.pushed = append(f.pushed, v.(string))
	}
	cmd.SetVal(int64(len(f.pushed)))
	return cmd
}

func (f *fakeList) LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.trims = append(f.trims, [2]int64{start, stop})
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func TestRedisHook_PushesJSONAndTrims(t *testing.T) {
	list := &fakeList{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(NewRedisHook(list, "intelliview:logs", 100))

	logger.WithField("request_id", "abc").Info("HTTP GET /api/health responded 200 in 1.0000 ms")
	logger.Debug("not shipped")

	require.Len(t, list.pushed, 1)
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(list.pushed[0]), &line))
	assert.Equal(t, "abc", line["request_id"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, [][2]int64{{-100, -1}}, list.trims)
}

func TestRedisHook_NoTrimWithoutMaxLen(t *testing.T) {
	list := &fakeList{}
	hook := NewRedisHook(list, "logs", 0, logrus.ErrorLevel)
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	require.NoError(t, hook.Fire(logrus.NewEntry(logrus.New())))
	assert.Len(t, list.pushed, 1)
	assert.Empty(t, list.trims)
}

func TestRedisHook_PushError(t *testing.T) {
	list := &fakeList{pushErr: errors.New("connection refused")}
	hook := NewRedisHook(list, "logs", 10)

	err := hook.Fire(logrus.NewEntry(logrus.New()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, list.trims)
}
