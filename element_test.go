package fluent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAdapt(t *testing.T) {
	tests := []struct {
		desc string
		in   *fakeElem
		want *Element
	}{
		{
			desc: "plain element",
			in:   div("Hello", map[string]string{"class": "a b"}),
			want: &Element{Kind: KindGeneric, TagName: "div", Text: "Hello", Attributes: map[string]string{"class": "a b"}},
		},
		{
			desc: "text input",
			in:   input("6"),
			want: &Element{Kind: KindText, TagName: "input", Text: "6", Value: "6", Attributes: map[string]string{"type": "text"}},
		},
		{
			desc: "input without type",
			in:   &fakeElem{tag: "input", value: "x"},
			want: &Element{Kind: KindText, TagName: "input", Text: "x", Value: "x", Attributes: map[string]string{}},
		},
		{
			desc: "checkbox is generic",
			in:   &fakeElem{tag: "input", attrs: map[string]string{"type": "checkbox", "value": "on"}},
			want: &Element{Kind: KindGeneric, TagName: "input", Value: "on", Attributes: map[string]string{"type": "checkbox", "value": "on"}},
		},
		{
			desc: "textarea",
			in:   &fakeElem{tag: "textarea", value: "notes"},
			want: &Element{Kind: KindText, TagName: "textarea", Text: "notes", Value: "notes", Attributes: map[string]string{}},
		},
		{
			desc: "single select",
			in:   selectOf(false, "Cars=cars", "*Motorcycles=motorcycles"),
			want: &Element{Kind: KindSelect, TagName: "select", Text: "Motorcycles", Value: "motorcycles", Attributes: map[string]string{}},
		},
		{
			desc: "single select with nothing selected",
			in:   selectOf(false, "Cars=cars"),
			want: &Element{Kind: KindSelect, TagName: "select", Attributes: map[string]string{}},
		},
		{
			desc: "multi select",
			in:   selectOf(true, "*Cars=cars", "Boats=boats", "*Planes=planes"),
			want: &Element{
				Kind:           KindMultiSelect,
				TagName:        "select",
				Text:           "Cars",
				Value:          "cars",
				Attributes:     map[string]string{"multiple": ""},
				SelectedTexts:  []string{"Cars", "Planes"},
				SelectedValues: []string{"cars", "planes"},
			},
		},
		{
			desc: "multiple=false is a single select",
			in: func() *fakeElem {
				s := selectOf(false, "*A=a")
				s.attrs["multiple"] = "FALSE"
				return s
			}(),
			want: &Element{Kind: KindSelect, TagName: "select", Text: "A", Value: "a", Attributes: map[string]string{"multiple": "FALSE"}},
		},
	}
	for _, test := range tests {
		got, err := DefaultAdapter.Adapt(test.in)
		if err != nil {
			t.Errorf("%s: Adapt() returned error: %v", test.desc, err)
			continue
		}
		if diff := cmp.Diff(test.want, got, cmpopts.IgnoreFields(Element{}, "Native"), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s: Adapt() returned diff (-want/+got):\n%s", test.desc, diff)
		}
		if got.Native != NativeElement(test.in) {
			t.Errorf("%s: Adapt().Native is not the adapted handle", test.desc)
		}
		if len(got.SelectedTexts) != len(got.SelectedValues) {
			t.Errorf("%s: %d selected texts but %d selected values", test.desc, len(got.SelectedTexts), len(got.SelectedValues))
		}
	}
}

func TestAttr(t *testing.T) {
	e := &Element{Attributes: map[string]string{"id": "x"}}
	if got := e.Attr("id"); got != "x" {
		t.Errorf("Attr(id) = %q, want %q", got, "x")
	}
	if got := e.Attr("missing"); got != "" {
		t.Errorf("Attr(missing) = %q, want empty", got)
	}
	var empty Element
	if got := empty.Attr("class"); got != "" {
		t.Errorf("Attr(class) on an element without attributes = %q, want empty", got)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{
		KindGeneric:     "generic",
		KindText:        "text",
		KindSelect:      "select",
		KindMultiSelect: "multi-select",
		Kind(9):         "Kind(9)",
	} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
