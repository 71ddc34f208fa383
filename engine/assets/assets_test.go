package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/spaghettifunk/renderpass/engine/core"
)

const tForward = `
[[attachment]]
format = "b8g8r8a8_srgb"
load_op = "clear"
store_op = "store"
final_layout = "present_src"

[[subpass]]
color = [{ attachment = 0, layout = "color_attachment_optimal" }]
`

const tTwoTargets = `
[[attachment]]
format = "r8g8b8a8_unorm"
final_layout = "shader_read_only_optimal"

[[attachment]]
format = "b8g8r8a8_srgb"
final_layout = "present_src"

[[subpass]]
color = [
	{ attachment = 0, layout = "color_attachment_optimal" },
	{ attachment = 1, layout = "color_attachment_optimal" },
]
`

// no subpass
const tBroken = `
[[attachment]]
format = "b8g8r8a8_srgb"
final_layout = "present_src"
`

func tWrite(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLibraryInitialize(t *testing.T) {
	dir := t.TempDir()
	tWrite(t, dir, "forward.rpass.toml", tForward)
	tWrite(t, dir, "post/targets.rpass.toml", tTwoTargets)
	tWrite(t, dir, "notes.txt", "not a description")

	lib, err := NewLibrary(false, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Shutdown()
	if err := lib.Initialize(dir); err != nil {
		t.Fatalf("Initialize\nhave %v\nwant nil", err)
	}

	names := lib.Names()
	if len(names) != 2 || names[0] != "forward" || names[1] != "targets" {
		t.Fatalf("Names()\nhave %v\nwant [forward targets]", names)
	}
	e, err := lib.Get("targets")
	if err != nil {
		t.Fatal(err)
	}
	if e.ID == uuid.Nil || e.Pass == nil || e.Pass.Attachments().Len() != 2 {
		t.Errorf("Get(targets)\nhave %+v", e)
	}
	if e.Path != filepath.Join(dir, "post", "targets.rpass.toml") {
		t.Errorf("Get(targets).Path\nhave %s", e.Path)
	}
	if _, err := lib.Get("shadow"); !errors.Is(err, core.ErrDescriptionNotFound) {
		t.Errorf("Get(shadow)\nhave %v\nwant %v", err, core.ErrDescriptionNotFound)
	}
}

func TestLibraryKeepsGoodEntries(t *testing.T) {
	dir := t.TempDir()
	tWrite(t, dir, "forward.rpass.toml", tForward)
	tWrite(t, dir, "broken.rpass.toml", tBroken)

	lib, err := NewLibrary(false, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Shutdown()
	err = lib.Initialize(dir)
	if !errors.Is(err, core.ErrNoSubpasses) {
		t.Errorf("Initialize\nhave %v\nwant %v", err, core.ErrNoSubpasses)
	}
	if _, err := lib.Get("forward"); err != nil {
		t.Errorf("Get(forward) after a failed sibling\nhave %v\nwant nil", err)
	}
	if _, err := lib.Get("broken"); err == nil {
		t.Errorf("Get(broken) found an entry for an invalid description")
	}
}

func TestLibraryInitializeMany(t *testing.T) {
	dir := t.TempDir()
	for i := range 24 {
		tWrite(t, dir, fmt.Sprintf("pass%02d.rpass.toml", i), tForward)
	}
	tWrite(t, dir, "broken.rpass.toml", tBroken)

	compiled, _ := core.MetricsCompiled()
	lib, err := NewLibrary(false, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Shutdown()
	if err := lib.Initialize(dir); !errors.Is(err, core.ErrNoSubpasses) {
		t.Errorf("Initialize\nhave %v\nwant %v", err, core.ErrNoSubpasses)
	}
	if have := len(lib.Names()); have != 24 {
		t.Errorf("len(Names())\nhave %d\nwant 24", have)
	}
	if c, _ := core.MetricsCompiled(); c-compiled < 24 {
		t.Errorf("MetricsCompiled() grew by %d, want at least 24", c-compiled)
	}
}

func TestLibraryReloadKeepsLastGoodEntry(t *testing.T) {
	dir := t.TempDir()
	path := tWrite(t, dir, "forward.rpass.toml", tForward)

	lib, err := NewLibrary(false, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Shutdown()
	first, err := lib.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	tWrite(t, dir, "forward.rpass.toml", tBroken)
	if _, err := lib.Load(path); err == nil {
		t.Fatalf("Load of a broken description succeeded")
	}
	if e, _ := lib.Get("forward"); e != first {
		t.Errorf("a failed reload replaced the entry")
	}

	tWrite(t, dir, "forward.rpass.toml", tTwoTargets)
	second, err := lib.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID == first.ID || second.Pass.Attachments().Len() != 2 {
		t.Errorf("reload\nhave %+v\nwant a new entry with 2 attachments", second)
	}
	if first.Pass.Attachments().Len() != 1 {
		t.Errorf("reload modified the previous entry")
	}
}

func tWaitEvent(t *testing.T, lib *Library, kind EventKind) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-lib.Events():
			if !ok {
				t.Fatalf("event channel closed while waiting for %s", kind)
			}
			if e.Kind == kind {
				return e
			}
		case <-timeout:
			t.Fatalf("no %s event", kind)
		}
	}
}

func TestLibraryWatch(t *testing.T) {
	dir := t.TempDir()
	lib, err := NewLibrary(true, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := lib.Initialize(dir); err != nil {
		t.Fatal(err)
	}

	path := tWrite(t, dir, "forward.rpass.toml", tForward)
	e := tWaitEvent(t, lib, EVENT_LOADED)
	if e.Entry == nil || e.Entry.Name != "forward" {
		t.Fatalf("loaded event\nhave %+v", e)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	tWaitEvent(t, lib, EVENT_REMOVED)
	if _, err := lib.Get("forward"); !errors.Is(err, core.ErrDescriptionNotFound) {
		t.Errorf("Get(forward) after removal\nhave %v\nwant %v", err, core.ErrDescriptionNotFound)
	}

	if err := lib.Shutdown(); err != nil {
		t.Fatal(err)
	}
	for range lib.Events() {
	}
}

func TestLibraryWatchesLoadedFile(t *testing.T) {
	dir := t.TempDir()
	path := tWrite(t, dir, "forward.rpass.toml", tForward)
	lib, err := NewLibrary(true, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Shutdown()
	if _, err := lib.Load(path); err != nil {
		t.Fatal(err)
	}

	// a sibling written first must not be picked up before the loaded file changes
	tWrite(t, dir, "targets.rpass.toml", tTwoTargets)
	tWrite(t, dir, "forward.rpass.toml", tTwoTargets)
	e := tWaitEvent(t, lib, EVENT_LOADED)
	if e.Path != path || e.Entry.Pass.Attachments().Len() != 2 {
		t.Fatalf("loaded event\nhave %+v\nwant a reload of %s", e, path)
	}
	if _, err := lib.Get("targets"); !errors.Is(err, core.ErrDescriptionNotFound) {
		t.Errorf("Get(targets) of an unwatched sibling\nhave %v\nwant %v", err, core.ErrDescriptionNotFound)
	}
}

func TestLibraryLoadAfterShutdown(t *testing.T) {
	for _, watch := range []bool{true, false} {
		dir := t.TempDir()
		path := tWrite(t, dir, "forward.rpass.toml", tForward)
		lib, err := NewLibrary(watch, 1)
		if err != nil {
			t.Fatal(err)
		}
		if err := lib.Initialize(dir); err != nil {
			t.Fatal(err)
		}
		if err := lib.Shutdown(); err != nil {
			t.Fatal(err)
		}

		if _, err := lib.Load(path); !errors.Is(err, ErrLibraryClosed) {
			t.Errorf("watch=%t: Load after Shutdown\nhave %v\nwant %v", watch, err, ErrLibraryClosed)
		}
		if err := lib.Initialize(dir); !errors.Is(err, ErrLibraryClosed) {
			t.Errorf("watch=%t: Initialize after Shutdown\nhave %v\nwant %v", watch, err, ErrLibraryClosed)
		}
		if err := lib.Shutdown(); err != nil {
			t.Errorf("watch=%t: second Shutdown\nhave %v\nwant nil", watch, err)
		}
		for range lib.Events() {
		}
		if _, err := lib.Get("forward"); err != nil {
			t.Errorf("watch=%t: Get after Shutdown\nhave %v\nwant nil", watch, err)
		}
	}
}

func TestLibraryConcurrentShutdown(t *testing.T) {
	dir := t.TempDir()
	path := tWrite(t, dir, "forward.rpass.toml", tForward)
	lib, err := NewLibrary(true, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := lib.Initialize(dir); err != nil {
		t.Fatal(err)
	}
	go func() {
		for range lib.Events() {
		}
	}()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if _, err := lib.Load(path); err != nil && !errors.Is(err, ErrLibraryClosed) {
					t.Errorf("Load\nhave %v\nwant nil or %v", err, ErrLibraryClosed)
					return
				}
			}
		}()
	}
	if err := lib.Shutdown(); err != nil {
		t.Fatal(err)
	}
	wg.Wait()
}

func TestBundledDescriptions(t *testing.T) {
	lib, err := NewLibrary(false, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Shutdown()
	if err := lib.Initialize(filepath.Join("..", "..", "assets", "renderpasses")); err != nil {
		t.Fatalf("Initialize\nhave %v\nwant nil", err)
	}
	e, err := lib.Get("deferred")
	if err != nil {
		t.Fatal(err)
	}
	// 3 colors, 3 inputs and 1 depth-stencil over two subpasses
	if have := e.Pass.ReferencePoolSize(); have != 7 {
		t.Errorf("deferred ReferencePoolSize()\nhave %d\nwant 7", have)
	}
	if _, err := lib.Get("forward"); err != nil {
		t.Error(err)
	}
}
