package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetEventKindCodes(t *testing.T) {
	cases := map[AssetEventKind]SystemEventCode{
		AssetEventAdded:                  EVENT_CODE_ASSET_ADDED,
		AssetEventModified:               EVENT_CODE_ASSET_MODIFIED,
		AssetEventRemoved:                EVENT_CODE_ASSET_REMOVED,
		AssetEventLoadedWithDependencies: EVENT_CODE_ASSET_LOADED_WITH_DEPENDENCIES,
		AssetEventFailed:                 EVENT_CODE_ASSET_FAILED,
	}
	for kind, code := range cases {
		assert.Equal(t, code, kind.Code(), kind.String())
	}
	assert.Equal(t, "asset_event(42)", AssetEventKind(42).String())
}

func TestEventRegisterAndFire(t *testing.T) {
	es := NewEventSystem()
	var got []AssetEvent
	listener := &struct{}{}
	onEvent := func(code SystemEventCode, sender, l interface{}, data EventContext) bool {
		assert.Same(t, listener, l)
		got = append(got, data.Asset)
		return false
	}

	require.True(t, es.Register(EVENT_CODE_ASSET_FAILED, listener, onEvent))
	assert.False(t, es.Register(EVENT_CODE_ASSET_FAILED, listener, onEvent), "duplicate listener")
	assert.False(t, es.Register(SystemEventCode(MAX_MESSAGE_CODES), listener, onEvent))
	assert.False(t, es.Register(EVENT_CODE_ASSET_FAILED, nil, nil))

	id := uuid.New()
	es.FireAsset(nil, AssetEvent{Kind: AssetEventFailed, ID: id})
	es.FireAsset(nil, AssetEvent{Kind: AssetEventAdded, ID: id})
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)

	assert.True(t, es.Unregister(EVENT_CODE_ASSET_FAILED, listener))
	assert.False(t, es.Unregister(EVENT_CODE_ASSET_FAILED, listener))
	es.FireAsset(nil, AssetEvent{Kind: AssetEventFailed, ID: id})
	assert.Len(t, got, 1)
}

func TestEventHandledStopsPropagation(t *testing.T) {
	es := NewEventSystem()
	calls := 0
	first := func(SystemEventCode, interface{}, interface{}, EventContext) bool { calls++; return true }
	second := func(SystemEventCode, interface{}, interface{}, EventContext) bool { calls++; return false }
	a, b := &struct{ n int }{1}, &struct{ n int }{2}
	es.Register(EVENT_CODE_APPLICATION_QUIT, a, first)
	es.Register(EVENT_CODE_APPLICATION_QUIT, b, second)

	assert.True(t, es.Fire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
	assert.Equal(t, 1, calls)

	require.NoError(t, es.Shutdown())
	assert.False(t, es.Fire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}))
	assert.Equal(t, 1, calls)
}
