package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickRouter_ListenAndCancel(t *testing.T) {
	r := NewClickRouter()
	cancel := r.Listen("z", func() (tea.Cmd, bool) { return nil, false })
	r.Listen("z", func() (tea.Cmd, bool) { return nil, false })
	assert.Equal(t, 2, r.Listeners("z"))
	assert.Equal(t, []string{"z"}, r.Zones())

	cancel()
	cancel()
	assert.Equal(t, 1, r.Listeners("z"), "cancel is idempotent")
}

func TestClickRouter_DispatchInnermostFirst(t *testing.T) {
	r := NewClickRouter()
	var order []string
	record := func(id string, stop bool) ClickHandler {
		return func() (tea.Cmd, bool) {
			order = append(order, id)
			return nil, stop
		}
	}
	r.Listen("inner", record("inner", false))
	r.Listen("middle", record("middle", true))
	r.Listen("outer", record("outer", false))

	r.Dispatch([]string{"inner", "middle", "outer"})
	assert.Equal(t, []string{"inner", "middle"}, order, "middle stops propagation")

	order = nil
	r.Dispatch([]string{"outer"})
	assert.Equal(t, []string{"outer"}, order)
}

func TestClickRouter_DispatchSkipsRemoved(t *testing.T) {
	r := NewClickRouter()
	var cancelSecond func()
	calledSecond := false
	r.Listen("z", func() (tea.Cmd, bool) {
		cancelSecond()
		return nil, false
	})
	cancelSecond = r.Listen("z", func() (tea.Cmd, bool) {
		calledSecond = true
		return nil, false
	})

	r.Dispatch([]string{"z"})
	assert.False(t, calledSecond)
	assert.Equal(t, 1, r.Listeners("z"))
}

func TestClickRouter_DispatchCollectsCmds(t *testing.T) {
	r := NewClickRouter()
	type ping struct{}
	r.Listen("z", func() (tea.Cmd, bool) {
		return func() tea.Msg { return ping{} }, false
	})

	cmd := r.Dispatch([]string{"z"})
	require.NotNil(t, cmd)
	assert.IsType(t, ping{}, cmd())
	assert.Nil(t, r.Dispatch([]string{"unknown"}))
}

func TestListenerScope_Release(t *testing.T) {
	r := NewClickRouter()
	s := newListenerScope(r)
	s.listen("a", func() (tea.Cmd, bool) { return nil, false })
	s.listen("b", func() (tea.Cmd, bool) { return nil, false })
	r.Listen("a", func() (tea.Cmd, bool) { return nil, false })

	s.release()
	s.release()
	assert.Equal(t, 1, r.Listeners("a"), "handlers outside the scope survive")
	assert.Equal(t, 0, r.Listeners("b"))

	var nilScope *listenerScope
	nilScope.release()
}

func TestHitPath_NoManager(t *testing.T) {
	r := NewClickRouter()
	r.Listen("z", func() (tea.Cmd, bool) { return nil, false })
	assert.Empty(t, r.HitPath(tea.MouseMsg{X: 1, Y: 1}))
}

func TestInnermostFirst_EqualAreaPrefersDeeperZone(t *testing.T) {
	path := innermostFirst([]zoneHit{
		{id: "modal1", area: 120},
		{id: "modal1/stop", area: 120},
		{id: "modal1/close", area: 3},
	})
	assert.Equal(t, []string{"modal1/close", "modal1/stop", "modal1"}, path)

	path = innermostFirst([]zoneHit{{id: "b", area: 9}, {id: "a", area: 4}})
	assert.Equal(t, []string{"a", "b"}, path)
}

func TestController_ClickBeforeResizeKeepsDialogOpen(t *testing.T) {
	c, clicks, _, d := newTestController(t)
	_, err := c.Open(Trigger{Href: "#d1"})
	require.NoError(t, err)

	// Unsized render: the stop region covers the whole backdrop.
	clicks.Dispatch(innermostFirst([]zoneHit{
		{id: d.ID, area: 200},
		{id: d.StopZone(), area: 200},
	}))
	assert.True(t, d.Visible())
	assert.Same(t, d, c.Active())
}
