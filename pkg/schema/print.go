package schema

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// ToDocument exports the schema to an *ast.SchemaDocument, the external
// AST shape the stock printer (vektah/gqlparser/v2/formatter) consumes.
// Printing itself is delegated entirely to that formatter; everything
// up to producing this AST is this package's own responsibility.
func (s *Schema) ToDocument() *ast.SchemaDocument {
	doc := &ast.SchemaDocument{}

	for _, t := range s.Types() {
		doc.Definitions = append(doc.Definitions, typeToDefinition(t))
	}

	for _, d := range s.Directives() {
		if s.IsBuiltinDirective(d.Name()) {
			continue
		}
		doc.Directives = append(doc.Directives, directiveDefToAST(d))
	}

	if sd := s.schemaDefinition; sd != nil && (sd.Query != nil || sd.Mutation != nil || sd.Subscription != nil) {
		def := &ast.SchemaDefinition{}
		if sd.Query != nil {
			def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{Operation: ast.Query, Type: sd.Query.Name()})
		}
		if sd.Mutation != nil {
			def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{Operation: ast.Mutation, Type: sd.Mutation.Name()})
		}
		if sd.Subscription != nil {
			def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{Operation: ast.Subscription, Type: sd.Subscription.Name()})
		}
		doc.Schema = append(doc.Schema, def)
	}

	return doc
}

// Print renders the schema as SDL text via the external formatter.
func (s *Schema) Print() string {
	var b strings.Builder
	formatter.NewFormatter(&b).FormatSchemaDocument(s.ToDocument())
	return b.String()
}

func typeToDefinition(t NamedType) *ast.Definition {
	def := &ast.Definition{Name: t.Name(), Description: t.Description(), Directives: directiveListToAST(*t.Directives())}
	switch v := t.(type) {
	case *ObjectType:
		def.Kind = ast.Object
		for _, f := range v.Fields() {
			def.Fields = append(def.Fields, fieldDefToAST(f))
		}
	case *ScalarType:
		def.Kind = ast.Scalar
	case *UnionType:
		def.Kind = ast.Union
		for _, m := range v.Members() {
			def.Types = append(def.Types, m.Name())
		}
	case *InputObjectType:
		def.Kind = ast.InputObject
		for _, f := range v.Fields() {
			def.Fields = append(def.Fields, inputFieldDefToAST(f))
		}
	}
	return def
}

func fieldDefToAST(f *FieldDefinition) *ast.FieldDefinition {
	out := &ast.FieldDefinition{
		Name:        f.Name(),
		Description: f.Description(),
		Type:        typeRefToAST(f.Type()),
		Directives:  directiveListToAST(*f.Directives()),
	}
	for _, a := range f.Arguments() {
		out.Arguments = append(out.Arguments, argumentDefToAST(a))
	}
	return out
}

func inputFieldDefToAST(f *InputFieldDefinition) *ast.FieldDefinition {
	return &ast.FieldDefinition{
		Name:         f.Name(),
		Type:         typeRefToAST(f.Type()),
		DefaultValue: f.defaultValue,
		Directives:   directiveListToAST(*f.Directives()),
	}
}

func argumentDefToAST(a *ArgumentDefinition) *ast.ArgumentDefinition {
	return &ast.ArgumentDefinition{
		Name:         a.Name(),
		Type:         typeRefToAST(a.Type()),
		DefaultValue: a.DefaultValue(),
		Directives:   directiveListToAST(*a.Directives()),
	}
}

func directiveDefToAST(d *DirectiveDefinition) *ast.DirectiveDefinition {
	out := &ast.DirectiveDefinition{Name: d.Name()}
	for _, a := range d.Arguments() {
		out.Arguments = append(out.Arguments, argumentDefToAST(a))
	}
	return out
}

func typeRefToAST(t TypeRef) *ast.Type {
	if lt, ok := t.(*ListType); ok {
		return ast.ListType(typeRefToAST(lt.Of), nil)
	}
	return ast.NamedType(t.BaseType().Name(), nil)
}

func directiveListToAST(l DirectiveList) ast.DirectiveList {
	if len(l) == 0 {
		return nil
	}
	out := make(ast.DirectiveList, 0, len(l))
	for _, app := range l {
		d := &ast.Directive{Name: app.Name}
		for _, name := range app.Args.SortedNames() {
			d.Arguments = append(d.Arguments, &ast.Argument{Name: name, Value: app.Args[name]})
		}
		out = append(out, d)
	}
	return out
}
