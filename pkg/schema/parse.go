package schema

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/nexusgraph/federation-core/pkg/operationreport"
	"github.com/nexusgraph/federation-core/pkg/value"
)

// FromDocument builds a mutable Schema from an external AST produced by
// vektah/gqlparser/v2, via a two-pass build. Pass 1 creates empty type shells
// for every Scalar/Object/Union/InputObject definition so forward
// references resolve regardless of declaration order; pass 2 fills
// fields, arguments, applied directives, union members, and root
// operation assignments. Unsupported productions — interface, enum,
// non-null wrapper, schema/type extensions — append a not-implemented
// error to the report and are otherwise skipped, so a caller sees every
// unsupported construct in one pass rather than failing on the first.
func FromDocument(doc *ast.SchemaDocument) (*Schema, *operationreport.Report) {
	report := &operationreport.Report{}
	s := NewMutableSchema()

	if len(doc.Extensions) > 0 {
		report.AddExternalError(operationreport.ErrNotImplemented("type extensions"))
	}
	if len(doc.SchemaExtension) > 0 {
		report.AddExternalError(operationreport.ErrNotImplemented("schema extensions"))
	}

	// pass 1: shells
	for _, def := range doc.Definitions {
		switch def.Kind {
		case ast.Scalar:
			if _, err := s.AddScalarType(def.Name); err != nil {
				report.AddExternalError(toExternal(err))
			}
		case ast.Object:
			if _, err := s.AddObjectType(def.Name); err != nil {
				report.AddExternalError(toExternal(err))
			}
		case ast.Union:
			if _, err := s.AddUnionType(def.Name); err != nil {
				report.AddExternalError(toExternal(err))
			}
		case ast.InputObject:
			if _, err := s.AddInputObjectType(def.Name); err != nil {
				report.AddExternalError(toExternal(err))
			}
		case ast.Interface:
			report.AddExternalError(operationreport.ErrNotImplemented("interface type " + def.Name))
		case ast.Enum:
			report.AddExternalError(operationreport.ErrNotImplemented("enum type " + def.Name))
		}
	}

	for _, dd := range doc.Directives {
		if _, err := s.AddDirectiveDefinition(dd.Name); err != nil {
			report.AddExternalError(toExternal(err))
		}
	}

	// pass 2: fill
	for _, def := range doc.Definitions {
		switch def.Kind {
		case ast.Object:
			fillObjectType(s, def, report)
		case ast.Union:
			fillUnionType(s, def, report)
		case ast.InputObject:
			fillInputObjectType(s, def, report)
		case ast.Scalar:
			if sc, ok := s.LookupType(def.Name); ok {
				if st, ok := sc.(*ScalarType); ok {
					st.SetDescription(def.Description)
				}
				applyDirectivesFromAST(s, sc.Directives(), def.Directives, report)
			}
		}
	}

	for _, dd := range doc.Directives {
		fillDirectiveDefinition(s, dd, report)
	}

	fillRootOperations(s, doc, report)

	return s, report
}

func fillObjectType(s *Schema, def *ast.Definition, report *operationreport.Report) {
	t, ok := s.LookupType(def.Name)
	if !ok {
		return
	}
	obj := t.(*ObjectType)
	obj.SetDescription(def.Description)
	applyDirectivesFromAST(s, obj.Directives(), def.Directives, report)

	for _, fd := range def.Fields {
		typ, ok := resolveType(s, fd.Type, report)
		if !ok {
			continue
		}
		field, err := obj.AddField(fd.Name, typ)
		if err != nil {
			report.AddExternalError(toExternal(err))
			continue
		}
		field.SetDescription(fd.Description)
		applyDirectivesFromAST(s, field.Directives(), fd.Directives, report)
		for _, ad := range fd.Arguments {
			argType, ok := resolveType(s, ad.Type, report)
			if !ok {
				continue
			}
			arg, err := field.AddArgument(ad.Name, argType)
			if err != nil {
				report.AddExternalError(toExternal(err))
				continue
			}
			if ad.DefaultValue != nil {
				_ = arg.SetDefaultValue(ad.DefaultValue)
			}
			applyDirectivesFromAST(s, arg.Directives(), ad.Directives, report)
		}
	}
}

func fillUnionType(s *Schema, def *ast.Definition, report *operationreport.Report) {
	t, ok := s.LookupType(def.Name)
	if !ok {
		return
	}
	u := t.(*UnionType)
	u.SetDescription(def.Description)
	applyDirectivesFromAST(s, u.Directives(), def.Directives, report)

	for _, memberName := range def.Types {
		mt, ok := s.LookupType(memberName)
		if !ok {
			report.AddExternalError(operationreport.ExternalError{
				Message:   fmt.Sprintf("union %s references unknown member %s", def.Name, memberName),
				ErrorCode: "UNKNOWN_TYPE",
			})
			continue
		}
		obj, ok := mt.(*ObjectType)
		if !ok {
			report.AddExternalError(operationreport.ExternalError{
				Message:   fmt.Sprintf("union %s member %s is not an object type", def.Name, memberName),
				ErrorCode: "INVALID_UNION_MEMBER",
			})
			continue
		}
		if err := u.AddMember(obj); err != nil {
			report.AddExternalError(toExternal(err))
		}
	}
}

func fillInputObjectType(s *Schema, def *ast.Definition, report *operationreport.Report) {
	t, ok := s.LookupType(def.Name)
	if !ok {
		return
	}
	io := t.(*InputObjectType)
	io.SetDescription(def.Description)
	applyDirectivesFromAST(s, io.Directives(), def.Directives, report)

	for _, fd := range def.Fields {
		typ, ok := resolveType(s, fd.Type, report)
		if !ok {
			continue
		}
		field, err := io.AddField(fd.Name, typ)
		if err != nil {
			report.AddExternalError(toExternal(err))
			continue
		}
		if fd.DefaultValue != nil {
			_ = field.SetDefaultValue(fd.DefaultValue)
		}
		applyDirectivesFromAST(s, field.Directives(), fd.Directives, report)
	}
}

func fillDirectiveDefinition(s *Schema, dd *ast.DirectiveDefinition, report *operationreport.Report) {
	d, ok := s.DirectiveDefinition(dd.Name)
	if !ok {
		return
	}
	for _, ad := range dd.Arguments {
		argType, ok := resolveType(s, ad.Type, report)
		if !ok {
			continue
		}
		arg, err := d.AddArgument(ad.Name, argType)
		if err != nil {
			report.AddExternalError(toExternal(err))
			continue
		}
		if ad.DefaultValue != nil {
			_ = arg.SetDefaultValue(ad.DefaultValue)
		}
	}
}

func fillRootOperations(s *Schema, doc *ast.SchemaDocument, report *operationreport.Report) {
	if len(doc.Schema) > 0 {
		for _, sd := range doc.Schema {
			for _, otd := range sd.OperationTypes {
				t, ok := s.LookupType(otd.Type)
				if !ok {
					report.AddExternalError(operationreport.ExternalError{
						Message:   fmt.Sprintf("schema definition references unknown type %s", otd.Type),
						ErrorCode: "UNKNOWN_TYPE",
					})
					continue
				}
				obj, ok := t.(*ObjectType)
				if !ok {
					continue
				}
				assignRoot(s, otd.Operation, obj)
			}
		}
		return
	}

	// No explicit schema{} block: default by conventional type name,
	// the same fallback asttransform.addMissingRootOperationTypeDefinitions
	// uses for Query/Mutation/Subscription.
	if t, ok := s.LookupType("Query"); ok {
		if obj, ok := t.(*ObjectType); ok {
			s.schemaDefinition.SetQuery(obj)
		}
	}
	if t, ok := s.LookupType("Mutation"); ok {
		if obj, ok := t.(*ObjectType); ok {
			s.schemaDefinition.SetMutation(obj)
		}
	}
	if t, ok := s.LookupType("Subscription"); ok {
		if obj, ok := t.(*ObjectType); ok {
			s.schemaDefinition.SetSubscription(obj)
		}
	}
}

func assignRoot(s *Schema, op ast.Operation, obj *ObjectType) {
	switch op {
	case ast.Query:
		s.schemaDefinition.SetQuery(obj)
	case ast.Mutation:
		s.schemaDefinition.SetMutation(obj)
	case ast.Subscription:
		s.schemaDefinition.SetSubscription(obj)
	}
}

func resolveType(s *Schema, t *ast.Type, report *operationreport.Report) (TypeRef, bool) {
	if t == nil {
		return nil, false
	}
	if t.NonNull {
		report.AddExternalError(operationreport.ErrNotImplemented("non-null type wrapper"))
		return nil, false
	}
	if t.NamedType != "" {
		named, ok := s.LookupType(t.NamedType)
		if !ok {
			report.AddExternalError(operationreport.ExternalError{
				Message:   fmt.Sprintf("unknown type %q", t.NamedType),
				ErrorCode: "UNKNOWN_TYPE",
			})
			return nil, false
		}
		return named, true
	}
	elem, ok := resolveType(s, t.Elem, report)
	if !ok {
		return nil, false
	}
	return List(elem), true
}

func applyDirectivesFromAST(s *Schema, into *DirectiveList, dirs ast.DirectiveList, report *operationreport.Report) {
	for _, d := range dirs {
		args := make(value.ArgumentMap, len(d.Arguments))
		for _, a := range d.Arguments {
			args[a.Name] = a.Value
		}
		into.Apply(d.Name, args)
	}
}

func toExternal(err error) operationreport.ExternalError {
	if ee, ok := err.(operationreport.ExternalError); ok {
		return ee
	}
	return operationreport.ExternalError{Message: err.Error(), ErrorCode: "SCHEMA_CONSTRUCTION_ERROR"}
}
