package template

import (
	"errors"
	"testing"
)

func TestRenderSubstitution(t *testing.T) {
	got, err := Render("project {{project}} v{{version}}", Bindings{
		"project": Literal("shop"),
		"version": Literal("0.1.0"),
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "project shop v0.1.0" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderCaseVariants(t *testing.T) {
	tmpl := "class {{name.pascal}}:{{name.snake}}:{{name.kebab}}:{{name.camel}}"
	got, err := Render(tmpl, Bindings{"name": Name("user_profile")})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "class UserProfile:user_profile:user-profile:userProfile"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderMissingVariable(t *testing.T) {
	_, err := Render("hello {{who}}", Bindings{})
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("error = %v, want *RenderError", err)
	}
	if renderErr.Variable != "who" {
		t.Errorf("Variable = %q, want %q", renderErr.Variable, "who")
	}
}

func TestRenderVariantErrors(t *testing.T) {
	// Unknown variant.
	_, err := Render("{{name.upper}}", Bindings{"name": Name("x")})
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("unknown variant error = %v, want *RenderError", err)
	}

	// Variant on a literal binding.
	_, err = Render("{{version.pascal}}", Bindings{"version": Literal("0.1.0")})
	if !errors.As(err, &renderErr) {
		t.Fatalf("literal variant error = %v, want *RenderError", err)
	}
}

func TestRenderLeavesLiteralBracesAlone(t *testing.T) {
	// Python dict/f-string braces must survive rendering.
	tmpl := `return {{"status": "ok"}} and f"<{{name.pascal}}(id={self.id})>"`
	got, err := Render(tmpl, Bindings{"name": Name("order")})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := `return {{"status": "ok"}} and f"<Order(id={self.id})>"`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderDeterministic(t *testing.T) {
	b := Bindings{"name": Name("OrderItem")}
	first, err := Render("{{name.snake}}", b)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Render("{{name.snake}}", b)
	if err != nil {
		t.Fatal(err)
	}
	if first != second || first != "order_item" {
		t.Errorf("renders differ or wrong: %q vs %q", first, second)
	}
}
