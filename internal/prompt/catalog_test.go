package prompt

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCatalogStartsOnFirstBuiltin(t *testing.T) {
	c := NewCatalog()
	templates := c.Templates()
	if len(templates) < 4 {
		t.Fatalf("expected several builtin templates, got %d", len(templates))
	}
	for i, tpl := range templates {
		if tpl.Origin != OriginBuiltin {
			t.Fatalf("template %d should be builtin", i)
		}
	}
	if c.Active() != templates[0].Text {
		t.Fatalf("active should default to the first builtin")
	}
	if !strings.Contains(templates[0].Text, "------------") {
		t.Fatalf("first builtin should be the structured topic report")
	}
}

func TestAddCustomAppendsAndActivates(t *testing.T) {
	c := NewCatalog()
	before := c.Len()

	tpl, err := c.AddCustom("Summarize decisions only.")
	if err != nil {
		t.Fatalf("add custom failed: %v", err)
	}
	if tpl.Origin != OriginCustom {
		t.Fatalf("unexpected origin: %v", tpl.Origin)
	}
	if c.Len() != before+1 {
		t.Fatalf("template not appended, len=%d", c.Len())
	}
	if last := c.Templates()[c.Len()-1]; last.Text != "Summarize decisions only." {
		t.Fatalf("custom template not last: %q", last.Text)
	}
	if c.Active() != "Summarize decisions only." {
		t.Fatalf("custom template should become active, got %q", c.Active())
	}
}

func TestAddCustomRejectsBlankText(t *testing.T) {
	c := NewCatalog()
	before := c.Len()
	if _, err := c.AddCustom("   \n\t"); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if c.Len() != before {
		t.Fatalf("blank template must not be appended")
	}
}

func TestSetActiveAcceptsFreeText(t *testing.T) {
	c := NewCatalog()
	c.SetActive("something typed by hand")
	if c.Active() != "something typed by hand" {
		t.Fatalf("active not updated: %q", c.Active())
	}
}
