package filter

import (
	"bytes"
	"testing"
)

func TestCache_ExactKeyMatch(t *testing.T) {
	c := NewCache()
	c.Put("https://a/1.png", 50, []byte("fifty"))

	if _, ok := c.Get("https://a/1.png", 51); ok {
		t.Error("Get() hit for a different gamma value")
	}
	if _, ok := c.Get("https://a/2.png", 50); ok {
		t.Error("Get() hit for a different image")
	}
	data, ok := c.Get("https://a/1.png", 50)
	if !ok || !bytes.Equal(data, []byte("fifty")) {
		t.Errorf("Get() = %q, %v, want exact entry", data, ok)
	}
}

func TestCache_InvalidateImage(t *testing.T) {
	c := NewCache()
	c.Put("https://a/1.png", 50, []byte("x"))
	c.Put("https://a/1.png", 80, []byte("y"))
	c.Put("https://a/2.png", 50, []byte("z"))

	c.InvalidateImage("https://a/1.png")

	if _, ok := c.Get("https://a/1.png", 50); ok {
		t.Error("Entry for invalidated image survived")
	}
	if _, ok := c.Get("https://a/1.png", 80); ok {
		t.Error("Entry for invalidated image survived")
	}
	if _, ok := c.Get("https://a/2.png", 50); !ok {
		t.Error("Entry for other image was dropped")
	}
}

func TestCache_Clear(t *testing.T) {
	c := NewCache()
	c.Put("https://a/1.png", 50, []byte("x"))
	c.Put("https://a/2.png", 50, []byte("y"))

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear(), want 0", c.Len())
	}
}
