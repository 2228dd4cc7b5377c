package analysis

import (
	"reflect"
	"testing"
)

func TestCounterItemsKeepFirstSeenOrder(t *testing.T) {
	c := NewCounter()
	c.Add("rock", 1)
	c.Add("pop", 1)
	c.Add("rock", 2)

	want := []Count{{"rock", 3}, {"pop", 1}}
	if got := c.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCounterTop(t *testing.T) {
	c := NewCounter()
	c.Add("folk", 1)
	c.Add("rock", 5)
	c.Add("pop", 3)
	c.Add("emo", 3)

	want := []Count{{"rock", 5}, {"pop", 3}, {"emo", 3}, {"folk", 1}}
	if got := c.Top(0); !reflect.DeepEqual(got, want) {
		t.Errorf("Top(0) = %v, want %v", got, want)
	}
	if got := c.Top(2); !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("Top(2) = %v, want %v", got, want[:2])
	}
}

func TestCounterMax(t *testing.T) {
	c := NewCounter()
	if _, ok := c.Max(); ok {
		t.Error("Max() on an empty counter reported a value")
	}

	c.Add("neutral", 2)
	c.Add("angsty", 2)
	if name, ok := c.Max(); !ok || name != "neutral" {
		t.Errorf("Max() = %q, want first-seen neutral on a tie", name)
	}

	c.Add("angsty", 1)
	if name, _ := c.Max(); name != "angsty" {
		t.Errorf("Max() = %q, want angsty", name)
	}
}
