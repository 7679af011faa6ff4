package rediscache

import "testing"

func TestKeysIncludeGeneration(t *testing.T) {
	store := &ResultSetStore{prefix: defaultPrefix}

	if got := store.generationKey("teams"); got != "staff:resultset:teams:gen" {
		t.Fatalf("unexpected generation key %q", got)
	}
	before := store.dataKey("teams", 0, "q=alpha")
	after := store.dataKey("teams", 1, "q=alpha")
	if before == after {
		t.Fatalf("expected generation bump to change the data key")
	}
	if after != "staff:resultset:teams:1:q=alpha" {
		t.Fatalf("unexpected data key %q", after)
	}
}

func TestNewResultSetStoreRejectsBadURL(t *testing.T) {
	if _, err := NewResultSetStore("not a url"); err == nil {
		t.Fatalf("expected invalid url error")
	}
}
