package parse

import (
	"strings"
	"testing"
)

func TestParseXMLPreservesMixedContent(t *testing.T) {
	root, err := ParseXML(strings.NewReader(`<P1><Pnumber>1</Pnumber><Text>hello <b>world</b></Text></P1>`))
	if err != nil {
		t.Fatalf("ParseXML: %v", err)
	}
	if root.Name != "P1" {
		t.Fatalf("expected root P1, got %s", root.Name)
	}
	pnum := root.Find("Pnumber")
	if pnum == nil || pnum.Text() != "1" {
		t.Fatalf("expected Pnumber text '1', got %+v", pnum)
	}
	text := root.Find("Text")
	if text == nil {
		t.Fatalf("expected Text element")
	}
	if got := strings.TrimSpace(text.Text()); got != "hello world" {
		t.Fatalf("expected 'hello world', got %q", got)
	}
}

func TestNodeFindAll(t *testing.T) {
	root, err := ParseXML(strings.NewReader(`<Body><P1><Pnumber>1</Pnumber></P1><P1><Pnumber>2</Pnumber></P1></Body>`))
	if err != nil {
		t.Fatalf("ParseXML: %v", err)
	}
	nums := root.FindAll("Pnumber")
	if len(nums) != 2 {
		t.Fatalf("expected 2 Pnumber elements, got %d", len(nums))
	}
	if nums[0].Text() != "1" || nums[1].Text() != "2" {
		t.Fatalf("expected ordered [1,2], got [%s,%s]", nums[0].Text(), nums[1].Text())
	}
}

func TestNodeAttr(t *testing.T) {
	root, err := ParseXML(strings.NewReader(`<Date Date="2020-01-01"/>`))
	if err != nil {
		t.Fatalf("ParseXML: %v", err)
	}
	v, ok := root.Attr("Date")
	if !ok || v != "2020-01-01" {
		t.Fatalf("expected Date attr '2020-01-01', got %q ok=%v", v, ok)
	}
}
