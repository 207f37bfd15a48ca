package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPathID(t *testing.T) {
	assert.Equal(t, PathID("textures/rock.png"), PathID("textures/rock.png"))
	assert.Equal(t, PathID("textures/rock.png"), PathID("textures/./rock.png"))
	assert.Equal(t, PathID("textures/rock.png"), PathID("textures/sub/../rock.png"))
	assert.NotEqual(t, PathID("textures/rock.png"), PathID("textures/grass.png"))
	assert.Equal(t, uuid.Version(5), PathID("a.png").Version())
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.False(t, IsNilID(a))
	assert.True(t, IsNilID(uuid.Nil))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.002)
	}
	assert.InDelta(t, 2.0, m.FrameTime(), 1e-9)
	assert.Equal(t, uint8(0), m.FrameAVGCounter)

	for i := 0; i < 600; i++ {
		m.Update(0.002)
	}
	fps, ms := m.Frame()
	assert.InDelta(t, 500, fps, 1)
	assert.InDelta(t, 2.0, ms, 1e-9)
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed())
	c.Start()
	c.Update()
	assert.GreaterOrEqual(t, c.Elapsed(), 0.0)
	c.Stop()
	before := c.Elapsed()
	c.Update()
	assert.Equal(t, before, c.Elapsed())
}

func TestParseLogLevel(t *testing.T) {
	l, err := ParseLogLevel(" DEBUG ")
	assert.NoError(t, err)
	assert.Equal(t, DebugLevel, l)
	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}
