package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildPeerViewsSortedByName(t *testing.T) {
	records := map[string]PeerRecord{
		"zed":  {Player: "zed"},
		"amy":  {Player: "amy"},
		"mike": {Player: "mike"},
	}
	views := BuildPeerViews(records, nil)
	require := []string{"amy", "mike", "zed"}
	for i, name := range require {
		assert.Equal(t, name, views[i].Name)
	}
}

func TestMessageBoardExpires(t *testing.T) {
	var mb messageBoard
	now := time.Now()
	mb.Post("hello", now)
	assert.Equal(t, "hello", mb.Current(now))
	assert.Equal(t, "", mb.Current(now.Add(messageLifetime+time.Millisecond)))
}

func TestPendingBySenderSumsLines(t *testing.T) {
	entries := []GarbageEntry{
		{Lines: 2, Sender: "a"},
		{Lines: 3, Sender: "a"},
		{Lines: 1, Sender: "b"},
	}
	got := pendingBySender(entries)
	assert.Equal(t, 5, got["a"])
	assert.Equal(t, 1, got["b"])
}
