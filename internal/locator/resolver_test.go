package locator

import (
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visibleAfter returns a candidate whose target appears after delay. The probe
// waits at most its timeout, like a real visibility wait.
func visibleAfter(name string, delay time.Duration, probes *[]string) Candidate {
	return Candidate{
		Name: name,
		Probe: func(timeout time.Duration) error {
			*probes = append(*probes, name)
			if delay <= timeout {
				time.Sleep(delay)
				return nil
			}
			time.Sleep(timeout)
			return playwright.ErrTimeout
		},
	}
}

func TestResolve_FirstVisibleWins(t *testing.T) {
	// GIVEN
	var probes []string
	resolver := New(20*time.Millisecond, nil)
	candidates := []Candidate{
		visibleAfter("late", 60*time.Millisecond, &probes),
		visibleAfter("second", 0, &probes),
		visibleAfter("third", 0, &probes),
	}

	// WHEN
	got, err := resolver.Resolve(candidates...)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)
	assert.Equal(t, []string{"late", "second"}, probes, "candidates after the first success must not be probed")
}

func TestResolve_PrefersEarlierCandidate(t *testing.T) {
	var probes []string
	resolver := New(50*time.Millisecond, nil)

	got, err := resolver.Resolve(
		visibleAfter("first", 10*time.Millisecond, &probes),
		visibleAfter("second", 0, &probes),
	)

	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, []string{"first"}, probes)
}

func TestResolve_AllFail(t *testing.T) {
	// GIVEN
	var probes []string
	timeout := 15 * time.Millisecond
	resolver := New(timeout, nil)
	candidates := []Candidate{
		visibleAfter("a", time.Hour, &probes),
		visibleAfter("b", time.Hour, &probes),
		visibleAfter("c", time.Hour, &probes),
	}

	// WHEN
	start := time.Now()
	_, err := resolver.Resolve(candidates...)
	elapsed := time.Since(start)

	// THEN
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.ErrorIs(t, err, playwright.ErrTimeout)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"a", "b", "c"}, notFound.Attempted)
	assert.Len(t, notFound.Causes, 3)
	assert.Contains(t, err.Error(), "tried a, b, c")

	// Each candidate is tried exactly once; the wait is bounded by the sum of timeouts.
	assert.Equal(t, []string{"a", "b", "c"}, probes)
	assert.Less(t, elapsed, 3*timeout+250*time.Millisecond)
}

func TestResolve_NoCandidates(t *testing.T) {
	_, err := New(time.Second, nil).Resolve()

	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestClickFirstVisible(t *testing.T) {
	clickErr := errors.New("detached")
	var clicked []string

	clickable := func(name string, visible bool, err error) Candidate {
		return Candidate{
			Name: name,
			Probe: func(time.Duration) error {
				if !visible {
					return playwright.ErrTimeout
				}
				return nil
			},
			Activate: func(time.Duration) error {
				clicked = append(clicked, name)
				return err
			},
		}
	}

	t.Run("should click the first visible candidate", func(t *testing.T) {
		clicked = nil
		got, ok := New(time.Millisecond, nil).ClickFirstVisible(time.Millisecond,
			clickable("hidden", false, nil),
			clickable("button", true, nil),
			clickable("icon", true, nil),
		)

		assert.True(t, ok)
		assert.Equal(t, "button", got.Name)
		assert.Equal(t, []string{"button"}, clicked)
	})

	t.Run("should swallow click failures and move on", func(t *testing.T) {
		clicked = nil
		got, ok := New(time.Millisecond, nil).ClickFirstVisible(time.Millisecond,
			clickable("broken", true, clickErr),
			clickable("icon", true, nil),
		)

		assert.True(t, ok)
		assert.Equal(t, "icon", got.Name)
		assert.Equal(t, []string{"broken", "icon"}, clicked)
	})

	t.Run("should report nothing clicked", func(t *testing.T) {
		clicked = nil
		_, ok := New(time.Millisecond, nil).ClickFirstVisible(time.Millisecond,
			clickable("hidden", false, nil),
			Candidate{Name: "probe-only", Probe: func(time.Duration) error { return nil }},
		)

		assert.False(t, ok)
		assert.Empty(t, clicked)
	})
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 1500.0, *Millis(1500*time.Millisecond))
}

// pwLocator lets fakes embed the interface without the field name hiding
// the interface's own Locator method.
type pwLocator = playwright.Locator

type visibilityLocator struct {
	pwLocator
	visible bool
	clicks  int
}

func (l *visibilityLocator) First() playwright.Locator { return l }

func (l *visibilityLocator) IsVisible(options ...playwright.LocatorIsVisibleOptions) (bool, error) {
	return l.visible, nil
}

func (l *visibilityLocator) Click(options ...playwright.LocatorClickOptions) error {
	l.clicks++
	return nil
}

func TestVisible(t *testing.T) {
	hidden := &visibilityLocator{}
	shown := &visibilityLocator{visible: true}

	got, ok := New(time.Second, nil).ClickFirstVisible(time.Second,
		Visible("#L2AGLb", hidden),
		Visible(`button:has-text("Accept all")`, shown),
	)

	assert.True(t, ok)
	assert.Equal(t, `button:has-text("Accept all")`, got.Name)
	assert.Zero(t, hidden.clicks)
	assert.Equal(t, 1, shown.clicks)
	assert.ErrorIs(t, Visible("x", hidden).Probe(0), ErrNotVisible)
}
