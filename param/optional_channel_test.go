package param_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-channelize/midi"
	"go-channelize/param"
)

func newParam(label string) *param.OptionalChannel {
	return param.NewOptionalChannel(param.Config{
		ID:        "target_channel",
		Name:      "Target Channel",
		NoneLabel: label,
		Default:   midi.None,
	})
}

func allValues() []midi.OptionalChannel {
	values := []midi.OptionalChannel{midi.None}
	for _, c := range midi.AllChannels() {
		values = append(values, midi.Some(c))
	}
	return values
}

func TestStringRoundTrip(t *testing.T) {
	for _, label := range []string{"All", "No Change", "No Channel", "  spaced out  ", "none"} {
		p := newParam(label)
		for _, v := range allValues() {
			text := p.ToString(v)
			got, err := p.FromString(text)
			require.NoError(t, err, "label %q, text %q", label, text)
			assert.Equal(t, v, got, "label %q", label)

			got, err = p.FromString("  " + text + "\t")
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	}
}

func TestToString(t *testing.T) {
	p := newParam("All")
	assert.Equal(t, "All", p.ToString(midi.None))
	assert.Equal(t, "1", p.ToString(midi.Some(midi.Channel1)))
	assert.Equal(t, "12", p.ToString(midi.Some(midi.Channel12)))
}

func TestFromStringRejects(t *testing.T) {
	p := newParam("All")
	for _, text := range []string{"", "0", "17", "-1", "01", "x", "all", "1.0", "ch 3"} {
		_, err := p.FromString(text)
		var perr param.ParseError
		require.True(t, errors.As(err, &perr), "text %q", text)
		assert.Equal(t, text, perr.Text)
		assert.EqualError(t, err, `unknown input "`+text+`"`)
	}
}

func TestNoneLabelFallback(t *testing.T) {
	for _, label := range []string{"", "   ", "3", " 16 "} {
		p := newParam(label)
		assert.Equal(t, param.DefaultNoneLabel, p.NoneLabel(), "label %q", label)
		got, err := p.FromString(p.ToString(midi.Some(midi.Channel3)))
		require.NoError(t, err)
		assert.Equal(t, midi.Some(midi.Channel3), got)
	}
}

func TestSteps(t *testing.T) {
	p := newParam("All")

	values := allValues()
	v := midi.None
	for i := 1; i < len(values); i++ {
		v = p.NextStep(v)
		assert.Equal(t, values[i], v)
	}
	assert.Equal(t, midi.Some(midi.Channel16), p.NextStep(v), "saturates at 16")

	for i := len(values) - 2; i >= 0; i-- {
		v = p.PreviousStep(v)
		assert.Equal(t, values[i], v)
	}
	assert.Equal(t, midi.None, p.PreviousStep(v), "saturates at none")

	for _, v := range values[:len(values)-1] {
		assert.Equal(t, v, p.PreviousStep(p.NextStep(v)))
	}
}

func TestIncrementDecrement(t *testing.T) {
	p := newParam("All")
	p.Increment()
	p.Increment()
	assert.Equal(t, midi.Some(midi.Channel2), p.Value())
	p.Decrement()
	assert.Equal(t, midi.Some(midi.Channel1), p.Value())
	p.Decrement()
	p.Decrement()
	assert.Equal(t, midi.None, p.Value())
}

func TestPlainStorage(t *testing.T) {
	p := param.NewOptionalChannel(param.Config{ID: "x", Default: midi.Some(midi.Channel5)})
	assert.Equal(t, int32(5), p.Plain())
	assert.Equal(t, midi.Some(midi.Channel5), p.Value())

	p.SetPlain(0)
	assert.Equal(t, midi.None, p.Value())

	p.SetPlain(12)
	assert.Equal(t, midi.Some(midi.Channel12), p.Value())

	// Out of range values read as the default.
	p.SetPlain(99)
	assert.Equal(t, int32(99), p.Plain())
	assert.Equal(t, midi.Some(midi.Channel5), p.Value())
	p.SetPlain(-1)
	assert.Equal(t, midi.Some(midi.Channel5), p.Value())

	p.SetValue(midi.Some(midi.Channel1))
	p.Reset()
	assert.Equal(t, midi.Some(midi.Channel5), p.Value())
}

func TestNormalized(t *testing.T) {
	p := newParam("All")
	assert.Equal(t, 16, p.StepCount())

	assert.InDelta(t, 0.0, p.PreviewNormalized(0), 1e-9)
	assert.InDelta(t, 1.0, p.PreviewNormalized(16), 1e-9)
	assert.InDelta(t, 0.5, p.PreviewNormalized(8), 1e-9)
	assert.InDelta(t, 1.0, p.PreviewNormalized(40), 1e-9, "clamped")

	for plain := int32(0); plain <= 16; plain++ {
		assert.Equal(t, plain, p.PreviewPlain(p.PreviewNormalized(plain)))
	}
	assert.Equal(t, int32(0), p.PreviewPlain(math.NaN()))
	assert.Equal(t, int32(16), p.PreviewPlain(2))

	p.SetNormalized(12.0 / 16)
	assert.Equal(t, midi.Some(midi.Channel12), p.Value())
	assert.InDelta(t, 12.0/16, p.Normalized(), 1e-9)

	assert.Equal(t, "All", p.NormalizedToString(0))
	assert.Equal(t, "16", p.NormalizedToString(1))

	n, err := p.StringToNormalized(" 4 ")
	require.NoError(t, err)
	assert.InDelta(t, 4.0/16, n, 1e-9)
	_, err = p.StringToNormalized("seventeen")
	assert.Error(t, err)
}

func TestModulation(t *testing.T) {
	p := newParam("All")
	p.SetPlain(4)

	p.SetModulation(2.0 / 16)
	assert.Equal(t, int32(4), p.Plain())
	assert.Equal(t, int32(6), p.ModulatedPlain())
	assert.Equal(t, midi.Some(midi.Channel6), p.Value())

	p.SetModulation(-1)
	assert.Equal(t, midi.None, p.Value(), "clamped at none")

	p.SetModulation(math.Inf(1))
	assert.Equal(t, midi.Some(midi.Channel4), p.Value(), "ignored")

	p.SetModulation(0)
	assert.Equal(t, midi.Some(midi.Channel4), p.Value())
}

func TestSetFromString(t *testing.T) {
	p := newParam("No Change")
	require.NoError(t, p.SetFromString("9"))
	assert.Equal(t, midi.Some(midi.Channel9), p.Value())
	assert.Equal(t, "9", p.Description())

	assert.Error(t, p.SetFromString("99"))
	assert.Equal(t, midi.Some(midi.Channel9), p.Value(), "unchanged on error")

	require.NoError(t, p.SetFromString("No Change"))
	assert.Equal(t, midi.None, p.Value())
	assert.Equal(t, "No Change", p.String())
}

func TestConcurrentAccess(t *testing.T) {
	p := newParam("All")
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			p.SetPlain(int32(i % 17))
		}
	}()
	for i := 0; i < 1000; i++ {
		_ = p.Value()
	}
	<-done
	assert.Equal(t, int32(999%17), p.Plain())
}

func TestValueDoesNotAllocate(t *testing.T) {
	p := newParam("All")
	p.SetPlain(7)
	allocs := testing.AllocsPerRun(100, func() {
		_ = p.Value()
	})
	assert.Zero(t, allocs)
}
