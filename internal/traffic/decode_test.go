package traffic

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestLoadUTF8(t *testing.T) {
	raw, err := Load([]byte("流量词,月搜索量\npet fountain,1200\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if raw.Header[0] != "流量词" {
		t.Errorf("expected UTF-8 header, got %q", raw.Header[0])
	}
	if len(raw.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raw.Records))
	}
}

func TestLoadGBKFallback(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("流量词,月搜索量\n宠物饮水机,1200\n"))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	raw, err := Load(gbk)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if raw.Header[0] != "流量词" {
		t.Errorf("expected GBK header decoded to 流量词, got %q", raw.Header[0])
	}
	if raw.Records[0][0] != "宠物饮水机" {
		t.Errorf("expected GBK keyword, got %q", raw.Records[0][0])
	}
}

func TestLoadLatin1LastResort(t *testing.T) {
	// 0xE9 is a GBK lead byte but its trail byte here (',') is invalid, so
	// both UTF-8 and GBK must be rejected before Latin-1 accepts it.
	data := []byte("keyword,volume\ncaf\xe9,100\n")
	raw, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if raw.Records[0][0] != "café" {
		t.Errorf("expected Latin-1 decode café, got %q", raw.Records[0][0])
	}
}

func TestLoadPrefersEarlierEncoding(t *testing.T) {
	// Valid UTF-8 CJK bytes are also decodable as GBK mojibake; the UTF-8
	// attempt comes first and must win.
	raw, err := Load([]byte("流量词,月搜索量\nfoo,1\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if raw.Header[0] != "流量词" {
		t.Errorf("UTF-8 did not win the fallback chain: %q", raw.Header[0])
	}
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := Load(nil)
	var unreadable *UnreadableFileError
	if !errors.As(err, &unreadable) {
		t.Fatalf("expected UnreadableFileError, got %v", err)
	}
}

func TestLoadMalformedCSV(t *testing.T) {
	_, err := Load([]byte("\"unterminated\nquote,1\n"))
	var unreadable *UnreadableFileError
	if !errors.As(err, &unreadable) {
		t.Fatalf("expected UnreadableFileError, got %v", err)
	}
}

func TestLoadPadsShortRecords(t *testing.T) {
	raw, err := Load([]byte("流量词,月搜索量,类目\nfoo,10\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(raw.Records[0]) != 3 {
		t.Fatalf("expected padded record of 3 cells, got %d", len(raw.Records[0]))
	}
}
