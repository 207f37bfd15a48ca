package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next tick.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// An asset appeared in the watched asset directory.
	/* Context usage:
	 * asset := data.Asset (Kind, ID)
	 */
	EVENT_CODE_ASSET_ADDED SystemEventCode = 0x10

	// A watched asset was written to on disk.
	EVENT_CODE_ASSET_MODIFIED SystemEventCode = 0x11

	// A watched asset was deleted from disk.
	EVENT_CODE_ASSET_REMOVED SystemEventCode = 0x12

	// An asset and everything it depends on finished loading and was committed to the store.
	EVENT_CODE_ASSET_LOADED_WITH_DEPENDENCIES SystemEventCode = 0x13

	// An asset failed to load. It will never produce a loaded event.
	EVENT_CODE_ASSET_FAILED SystemEventCode = 0x14

	// The splatted material entity has been spawned.
	/* Context usage:
	 * entity := data.Asset.ID
	 */
	EVENT_CODE_MATERIAL_SPAWNED SystemEventCode = 0x20

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// AssetEventKind is the lifecycle milestone an asset notification reports.
type AssetEventKind uint8

const (
	AssetEventAdded AssetEventKind = iota
	AssetEventModified
	AssetEventRemoved
	AssetEventLoadedWithDependencies
	AssetEventFailed
)

func (k AssetEventKind) String() string {
	switch k {
	case AssetEventAdded:
		return "added"
	case AssetEventModified:
		return "modified"
	case AssetEventRemoved:
		return "removed"
	case AssetEventLoadedWithDependencies:
		return "loaded_with_dependencies"
	case AssetEventFailed:
		return "failed"
	default:
		return fmt.Sprintf("asset_event(%d)", uint8(k))
	}
}

// Code maps the kind onto the event code it is fired under.
func (k AssetEventKind) Code() SystemEventCode {
	switch k {
	case AssetEventAdded:
		return EVENT_CODE_ASSET_ADDED
	case AssetEventModified:
		return EVENT_CODE_ASSET_MODIFIED
	case AssetEventRemoved:
		return EVENT_CODE_ASSET_REMOVED
	case AssetEventLoadedWithDependencies:
		return EVENT_CODE_ASSET_LOADED_WITH_DEPENDENCIES
	default:
		return EVENT_CODE_ASSET_FAILED
	}
}

// AssetEvent is one entry of the completion notification stream.
type AssetEvent struct {
	Kind AssetEventKind
	ID   uuid.UUID
}

func (e AssetEvent) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.ID)
}

type EventContext struct {
	Asset AssetEvent
	// Free-form payload for application codes.
	Data interface{}
}

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

// EventSystem dispatches events to listeners registered per code. It is meant
// to be driven from the update goroutine; the mutex only guards registration
// against listeners that register from job callbacks.
type EventSystem struct {
	mutex sync.RWMutex
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

func NewEventSystem() *EventSystem {
	return &EventSystem{}
}

func (es *EventSystem) Shutdown() error {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	// Free the events arrays. And objects pointed to should be destroyed on their own.
	for i := 0; i < MAX_MESSAGE_CODES; i++ {
		if len(es.registered[i].events) != 0 {
			es.registered[i].events = nil
		}
	}
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener/callback combos will not be registered again and will cause this to return FALSE.
 * @param code The event code to listen for.
 * @param listener A pointer to a listener instance. Can be nil.
 * @param onEvent The callback function to be invoked when the event code is fired.
 * @returns TRUE if the event is successfully registered; otherwise false.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code < 0 || int(code) >= MAX_MESSAGE_CODES || onEvent == nil {
		return false
	}
	es.mutex.Lock()
	defer es.mutex.Unlock()

	for _, e := range es.registered[code].events {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	// If at this point, no duplicate was found. Proceed with registration.
	es.registered[code].events = append(es.registered[code].events, &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns FALSE.
 * @param code The event code to stop listening for.
 * @param listener The listener instance used at registration.
 * @returns TRUE if the event is successfully unregistered; otherwise false.
 */
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	if code < 0 || int(code) >= MAX_MESSAGE_CODES {
		return false
	}
	es.mutex.Lock()
	defer es.mutex.Unlock()

	events := es.registered[code].events
	for i, e := range events {
		if e.listener == listener {
			es.registered[code].events = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * TRUE, the event is considered handled and is not passed on to any more listeners.
 * @param code The event code to fire.
 * @param sender The sender. Can be nil.
 * @param context The event data.
 * @returns TRUE if handled, otherwise FALSE.
 */
func (es *EventSystem) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if code < 0 || int(code) >= MAX_MESSAGE_CODES {
		return false
	}
	es.mutex.RLock()
	events := make([]*registeredEvent, len(es.registered[code].events))
	copy(events, es.registered[code].events)
	es.mutex.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// FireAsset fires an asset notification under the code matching its kind.
func (es *EventSystem) FireAsset(sender interface{}, event AssetEvent) bool {
	return es.Fire(event.Kind.Code(), sender, EventContext{Asset: event})
}
