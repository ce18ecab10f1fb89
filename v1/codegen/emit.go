package codegen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
)

const generatedHeader = "Code generated by schemactl. DO NOT EDIT."

// emitter renders type declarations into one Go source file.
type emitter struct {
	packageName string
	style       Style
}

func (e emitter) render(rootName string, types []*goType) (string, error) {
	f := jen.NewFile(e.packageName)
	f.HeaderComment(generatedHeader)

	for _, t := range types {
		switch t.Kind {
		case kindStruct:
			e.emitStruct(f, t)
			if e.style == StyleRecord {
				e.emitRecordMethods(f, t)
			}
		case kindEnum:
			e.emitEnum(f, t)
		case kindNamed:
			emitDoc(f, t.Name, t.Doc)
			f.Type().Id(t.Name).Add(typeCode(t.Underlying))
		}

		if t.Name == rootName {
			e.emitJSONHelpers(f, t)
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render Go source: %w", err)
	}
	return buf.String(), nil
}

func emitDoc(f *jen.File, name, doc string) {
	if doc != "" {
		f.Comment(doc)
		return
	}
	f.Comment(name + " is generated from a JSON Schema.")
}

func (e emitter) emitStruct(f *jen.File, t *goType) {
	emitDoc(f, t.Name, t.Doc)

	fields := make([]jen.Code, 0, len(t.Fields))
	for _, field := range t.Fields {
		tag := field.JSONName
		if !field.Required {
			tag += ",omitempty"
		}
		if field.Doc != "" {
			fields = append(fields, jen.Comment(field.Doc))
		}
		fields = append(fields, jen.Id(field.Name).Add(typeCode(field.Type)).Tag(map[string]string{"json": tag}))
	}
	f.Type().Id(t.Name).Struct(fields...)
}

func (e emitter) emitEnum(f *jen.File, t *goType) {
	emitDoc(f, t.Name, t.Doc)
	f.Type().Id(t.Name).String()

	f.Const().DefsFunc(func(g *jen.Group) {
		for _, v := range t.EnumValues {
			g.Id(v.GoName).Id(t.Name).Op("=").Lit(v.Value)
		}
	})
}

// emitRecordMethods adds New<T> over the required fields and a
// value-receiver With<Field> for every optional one.
func (e emitter) emitRecordMethods(f *jen.File, t *goType) {
	recv := receiverName(t.Name)

	var params []jen.Code
	values := jen.Dict{}
	for _, field := range t.Fields {
		if !field.Required {
			continue
		}
		param := paramName(field.Name, recv)
		params = append(params, jen.Id(param).Add(typeCode(field.Type)))
		values[jen.Id(field.Name)] = jen.Id(param)
	}

	f.Commentf("New%s returns a %s with every required field set.", t.Name, t.Name)
	f.Func().Id("New"+t.Name).Params(params...).Id(t.Name).Block(
		jen.Return(jen.Id(t.Name).Values(values)),
	)

	for _, field := range t.Fields {
		if field.Required {
			continue
		}
		param := paramName(field.Name, recv)
		f.Commentf("With%s returns a copy of %s with %s replaced.", field.Name, recv, field.Name)
		f.Func().Params(jen.Id(recv).Id(t.Name)).Id("With"+field.Name).
			Params(jen.Id(param).Add(typeCode(field.Type))).Id(t.Name).
			Block(
				jen.Id(recv).Dot(field.Name).Op("=").Id(param),
				jen.Return(jen.Id(recv)),
			)
	}
}

// emitJSONHelpers adds ToJSON and <T>FromJSON for the root type.
func (e emitter) emitJSONHelpers(f *jen.File, t *goType) {
	recv := receiverName(t.Name)
	data := "data"
	if recv == data {
		data = "raw"
	}

	if e.style == StyleRecord {
		f.Comment("ToJSON encodes the value as JSON.")
		f.Func().Params(jen.Id(recv).Id(t.Name)).Id("ToJSON").Params().Params(jen.Index().Byte(), jen.Error()).Block(
			jen.Return(jen.Qual("encoding/json", "Marshal").Call(jen.Id(recv))),
		)

		f.Commentf("%sFromJSON decodes a %s from JSON.", t.Name, t.Name)
		f.Func().Id(t.Name+"FromJSON").Params(jen.Id(data).Index().Byte()).Params(jen.Id(t.Name), jen.Error()).Block(
			jen.Var().Id("v").Id(t.Name),
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id(data), jen.Op("&").Id("v")),
			jen.Return(jen.Id("v"), jen.Err()),
		)
		return
	}

	f.Comment("ToJSON encodes the value as JSON.")
	f.Func().Params(jen.Id(recv).Op("*").Id(t.Name)).Id("ToJSON").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Return(jen.Qual("encoding/json", "Marshal").Call(jen.Id(recv))),
	)

	f.Commentf("%sFromJSON decodes a %s from JSON.", t.Name, t.Name)
	f.Func().Id(t.Name+"FromJSON").Params(jen.Id(data).Index().Byte()).Params(jen.Op("*").Id(t.Name), jen.Error()).Block(
		jen.Var().Id("v").Id(t.Name),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id(data), jen.Op("&").Id("v")),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Op("&").Id("v"), jen.Nil()),
	)
}

func typeCode(ref typeRef) *jen.Statement {
	var s *jen.Statement
	switch {
	case ref.Slice:
		s = jen.Index().Add(typeCode(elemOf(ref)))
	case ref.Map:
		s = jen.Map(jen.String()).Add(typeCode(elemOf(ref)))
	case ref.Time:
		s = jen.Qual("time", "Time")
	case ref.Named != "":
		s = jen.Id(ref.Named)
	case ref.Builtin == "string":
		s = jen.String()
	case ref.Builtin == "int64":
		s = jen.Int64()
	case ref.Builtin == "float64":
		s = jen.Float64()
	case ref.Builtin == "bool":
		s = jen.Bool()
	default:
		s = jen.Interface()
	}
	if ref.Pointer {
		return jen.Op("*").Add(s)
	}
	return s
}

func elemOf(ref typeRef) typeRef {
	if ref.Elem == nil {
		return anyRef
	}
	return *ref.Elem
}

func receiverName(typeName string) string {
	return lowerIdent(string([]rune(typeName)[:1]))
}

func paramName(fieldName, recv string) string {
	name := lowerIdent(fieldName)
	if name == recv || name == "v" || name == "err" {
		return name + "Value"
	}
	return name
}
