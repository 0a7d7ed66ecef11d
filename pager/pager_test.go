package pager

import (
	"os"
	"testing"
)

func newTempPager(t *testing.T, pageSize uint32) (*Pager, string) {
	f, err := os.CreateTemp("", "pager-*.db")
	if err != nil {
		t.Fatal(err)
	}
	name := f.Name()
	f.Close()
	p, err := Open(name, pageSize)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return p, name
}

func TestOpenEmptyFile(t *testing.T) {
	p, name := newTempPager(t, DefaultPageSize)
	defer os.Remove(name)
	defer p.Close()

	if p.NumPages != 0 {
		t.Errorf("NumPages = %d; want 0 for a freshly created file", p.NumPages)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d; want %d", p.PageSize, DefaultPageSize)
	}
}

func TestOpenRejectsUnalignedSize(t *testing.T) {
	f, err := os.CreateTemp("", "pager-*.db")
	if err != nil {
		t.Fatal(err)
	}
	name := f.Name()
	defer os.Remove(name)
	if _, err := f.Write(make([]byte, 10)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := Open(name, DefaultPageSize); err == nil {
		t.Error("expected an error opening a file whose size is not a multiple of the page size")
	}
}

func TestGetPageGrowsNumPages(t *testing.T) {
	p, name := newTempPager(t, 128)
	defer os.Remove(name)
	defer p.Close()

	if _, err := p.GetPage(0); err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}
	if p.NumPages != 1 {
		t.Errorf("NumPages = %d; want 1 after first GetPage", p.NumPages)
	}

	if _, err := p.GetPage(3); err != nil {
		t.Fatalf("GetPage(3): %v", err)
	}
	if p.NumPages != 4 {
		t.Errorf("NumPages = %d; want 4 after GetPage(3)", p.NumPages)
	}
}

func TestGetUnusedPageNumIsPure(t *testing.T) {
	p, name := newTempPager(t, 128)
	defer os.Remove(name)
	defer p.Close()

	if _, err := p.GetPage(0); err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}

	first := p.GetUnusedPageNum()
	second := p.GetUnusedPageNum()
	if first != second {
		t.Errorf("GetUnusedPageNum is not pure: %d then %d", first, second)
	}
	if first != p.NumPages {
		t.Errorf("GetUnusedPageNum() = %d; want NumPages = %d", first, p.NumPages)
	}
}

func TestFlushAndReopenPreservesData(t *testing.T) {
	p, name := newTempPager(t, 128)
	defer os.Remove(name)

	page, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}
	copy(page.Data, []byte("hello"))
	page.Dirty = true

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(name, 128)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if reopened.NumPages != 1 {
		t.Fatalf("NumPages = %d after reopen; want 1", reopened.NumPages)
	}
	reloaded, err := reopened.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0) after reopen: %v", err)
	}
	if string(reloaded.Data[:5]) != "hello" {
		t.Errorf("reloaded data = %q; want prefix hello", reloaded.Data[:5])
	}
}

func TestFlushOnlyWritesDirtyPages(t *testing.T) {
	p, name := newTempPager(t, 128)
	defer os.Remove(name)
	defer p.Close()

	page, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}
	if page.Dirty {
		t.Error("freshly loaded page should not start dirty")
	}
	if err := p.Flush(0); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	fi, err := os.Stat(name)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if fi.Size() != 0 {
		t.Errorf("file size = %d after flushing a clean page; want 0", fi.Size())
	}
}
