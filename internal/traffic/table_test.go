package traffic

import (
	"errors"
	"strings"
	"testing"
)

var defaultOpts = Options{
	KeywordColumn: "流量词",
	VolumeColumn:  "月搜索量",
	OnBadRows:     DropBadRows,
}

func mustLoad(t *testing.T, csvText string) *RawTable {
	t.Helper()
	raw, err := Load([]byte(csvText))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return raw
}

func TestNormalizeCoercesAndDrops(t *testing.T) {
	raw := mustLoad(t, "流量词,月搜索量\n"+
		`dog bowl,"1,234"`+"\n"+
		"cat bowl,500\n"+
		"bird bowl,abc\n"+
		"fish bowl,\n")
	tab, err := Normalize(raw, defaultOpts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("expected 2 surviving rows, got %d", len(tab.Rows))
	}
	if tab.Dropped != 2 {
		t.Errorf("expected 2 dropped rows, got %d", tab.Dropped)
	}
	if tab.Rows[0].Volume != 1234 || tab.Rows[1].Volume != 500 {
		t.Errorf("unexpected volumes: %v, %v", tab.Rows[0].Volume, tab.Rows[1].Volume)
	}
	if tab.Rows[0].Keyword != "dog bowl" || tab.Rows[1].Keyword != "cat bowl" {
		t.Errorf("unexpected keywords: %q, %q", tab.Rows[0].Keyword, tab.Rows[1].Keyword)
	}
}

func TestNormalizeHeaderTrimExactMatch(t *testing.T) {
	// Surrounding whitespace on a header cell is trimmed before matching.
	raw := mustLoad(t, " 流量词 , 月搜索量 \nfoo,10\n")
	tab, err := Normalize(raw, defaultOpts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(tab.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(tab.Rows))
	}

	// A near-miss name never matches.
	raw = mustLoad(t, "流量词,月搜索量2\nfoo,10\n")
	_, err = Normalize(raw, defaultOpts)
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != "月搜索量" {
		t.Errorf("expected missing column 月搜索量, got %q", missing.Column)
	}
}

func TestNormalizeMissingKeywordColumn(t *testing.T) {
	raw := mustLoad(t, "keyword,月搜索量\nfoo,10\n")
	_, err := Normalize(raw, defaultOpts)
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != "流量词" {
		t.Errorf("expected missing column 流量词, got %q", missing.Column)
	}
}

func TestNormalizeFailPolicy(t *testing.T) {
	raw := mustLoad(t, "流量词,月搜索量\nfoo,10\nbar,abc\n")
	opts := defaultOpts
	opts.OnBadRows = FailBadRows
	if _, err := Normalize(raw, opts); err == nil {
		t.Fatal("expected error under fail policy")
	}
}

func TestNormalizeRejectsNegative(t *testing.T) {
	raw := mustLoad(t, "流量词,月搜索量\nfoo,-5\nbar,0\n")
	tab, err := Normalize(raw, defaultOpts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(tab.Rows) != 1 || tab.Rows[0].Keyword != "bar" {
		t.Fatalf("expected only the zero-volume row to survive, got %+v", tab.Rows)
	}
}

func TestNormalizeKeepsPassthroughColumns(t *testing.T) {
	raw := mustLoad(t, "流量词,月搜索量,类目,备注\nfoo,10,家居,热卖\n")
	tab, err := Normalize(raw, defaultOpts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := tab.Rows[0].Fields[2]; got != "家居" {
		t.Errorf("expected passthrough cell 家居, got %q", got)
	}
}

func TestTopKOrderAndTies(t *testing.T) {
	raw := mustLoad(t, "流量词,月搜索量\na,10\nb,50\nc,5\nd,100\ne,20\nf,30\n")
	tab, err := Normalize(raw, defaultOpts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	top := tab.TopK(5)
	want := []float64{100, 50, 30, 20, 10}
	if len(top) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(top))
	}
	for i, w := range want {
		if top[i].Volume != w {
			t.Errorf("top[%d]: expected %v, got %v", i, w, top[i].Volume)
		}
	}

	// Ties keep original row order.
	raw = mustLoad(t, "流量词,月搜索量\nfirst,50\nsecond,50\nthird,50\n")
	tab, _ = Normalize(raw, defaultOpts)
	top = tab.TopK(3)
	if top[0].Keyword != "first" || top[1].Keyword != "second" || top[2].Keyword != "third" {
		t.Errorf("tie-break not stable: %q %q %q", top[0].Keyword, top[1].Keyword, top[2].Keyword)
	}
}

func TestTopKLargerThanTable(t *testing.T) {
	raw := mustLoad(t, "流量词,月搜索量\na,1\nb,2\n")
	tab, _ := Normalize(raw, defaultOpts)
	if got := len(tab.TopK(100)); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
}

func TestSerializeCSVPreservesColumns(t *testing.T) {
	raw := mustLoad(t, "流量词,月搜索量,类目\nfoo,10,家居\nbar,20,户外\n")
	tab, _ := Normalize(raw, defaultOpts)
	out := tab.SerializeCSV(tab.TopK(2))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), out)
	}
	if lines[0] != "流量词,月搜索量,类目" {
		t.Errorf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "bar,20,户外" {
		t.Errorf("expected largest row first, got %q", lines[1])
	}
}
