package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseState(t *testing.T) {
	for _, st := range AllStates {
		got, err := ParseState(string(st))
		if err != nil || got != st {
			t.Errorf("ParseState(%q) = %v, %v", st, got, err)
		}
	}

	if _, err := ParseState("frozen"); err == nil {
		t.Error("expected error for unknown state")
	}
}

func TestStateNext(t *testing.T) {
	if got := StateLive.Next(); got != StateArchived {
		t.Errorf("StateLive.Next() = %v", got)
	}
	if got := StateClosed.Next(); got != StateLive {
		t.Errorf("StateClosed.Next() = %v, want wrap to live", got)
	}
	if got := CollectionState("bogus").Next(); got != StateLive {
		t.Errorf("unknown.Next() = %v, want live", got)
	}
}

func TestListFolders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/connectors/main/folders" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		json.NewEncoder(w).Encode([]folderRecord{
			{GUID: "g2", Path: "photos/2023", ObjectCount: 10, TotalSize: 2048},
			{GUID: "g1", Path: "archive", CollectionGUID: "col-1"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)

	snap, err := c.ListFolders(context.Background(), "main")
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}

	if snap.Len() != 2 {
		t.Fatalf("Len = %d, want 2", snap.Len())
	}

	folders := snap.Folders()
	if folders[0].Path != "archive" || folders[1].Path != "photos/2023" {
		t.Errorf("snapshot not sorted by path: %v", folders)
	}
	if !folders[0].IsMapped() {
		t.Error("archive should be mapped")
	}
}

func TestCreateCollections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		var req struct {
			Mappings []Mapping `json:"mappings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Mappings) != 2 {
			t.Fatalf("got %d mappings, want 2", len(req.Mappings))
		}
		if req.Mappings[0].State != StateLive {
			t.Errorf("state = %q", req.Mappings[0].State)
		}

		json.NewEncoder(w).Encode(BatchResult{
			Created: []CreatedCollection{{CollectionGUID: "c1", FolderGUID: "g1", Name: "Archive"}},
			Errors:  []MappingError{{FolderGUID: "g2", Message: "duplicate name"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)

	res, err := c.CreateCollections(context.Background(), "main", []Mapping{
		{FolderGUID: "g1", Name: "Archive", State: StateLive},
		{FolderGUID: "g2", Name: "Photos", State: StateLive},
	})
	if err != nil {
		t.Fatalf("CreateCollections: %v", err)
	}

	if len(res.Created) != 1 || res.Created[0].CollectionGUID != "c1" {
		t.Errorf("created = %+v", res.Created)
	}
	if len(res.Errors) != 1 || res.Errors[0].Message != "duplicate name" {
		t.Errorf("errors = %+v", res.Errors)
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-token", nil)

	_, err := c.ListFolders(context.Background(), "main")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)

	_, err := c.CreateCollections(context.Background(), "main", []Mapping{{FolderGUID: "g1", Name: "X", State: StateLive}})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}
