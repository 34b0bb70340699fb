package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/google/uuid"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/geom"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms armature Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: side-left -> side_left
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMaterial wraps an assembly.MaterialSpec so it can be passed between builtins.
type sexpMaterial struct {
	spec assembly.MaterialSpec
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material :species %q)", m.spec.Species)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpComponentRef wraps a component identifier so panels can be passed
// to constraint builtins by reference as well as by name.
type sexpComponentRef struct {
	id string
}

func (c *sexpComponentRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(component %q)", c.id)
}
func (c *sexpComponentRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value — treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toMaterial extracts a MaterialSpec from a sexpMaterial.
func toMaterial(s zygo.Sexp) (assembly.MaterialSpec, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.spec, nil
	}
	return assembly.MaterialSpec{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// toComponentID extracts a component identifier from either a component
// reference or a plain name string.
func toComponentID(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpComponentRef:
		return v.id, nil
	case *zygo.SexpStr:
		if strings.HasPrefix(v.S, kwPrefix) {
			return "", fmt.Errorf("expected component name, got keyword :%s", v.S[len(kwPrefix):])
		}
		return v.S, nil
	}
	return "", fmt.Errorf("expected component name or reference, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the armature DSL builtins into a zygomys
// environment. The builtins populate the provided assembly during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, asm *assembly.Assembly) {

	// lookupComponent resolves a builtin argument to an existing component id.
	lookupComponent := func(builtin string, s zygo.Sexp) (string, error) {
		id, err := toComponentID(s)
		if err != nil {
			return "", fmt.Errorf("%s: %w", builtin, err)
		}
		if !asm.HasComponent(id) {
			return "", fmt.Errorf("%s: no component named %q", builtin, id)
		}
		return id, nil
	}

	// addConstraint appends a constraint with a generated identifier.
	addConstraint := func(t assembly.ConstraintType, a, b string, target *float64) zygo.Sexp {
		asm.AddConstraint(&assembly.Constraint{
			ID:       uuid.NewString(),
			Type:     t,
			ElementA: a,
			ElementB: b,
			Target:   target,
			Weight:   assembly.DefaultWeight,
		})
		return zygo.SexpNull
	}

	// binaryConstraint parses the common (op "a" "b" [target]) shape.
	binaryConstraint := func(builtin string, t assembly.ConstraintType, wantTarget bool) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires two component arguments", builtin)
			}
			a, err := lookupComponent(builtin, pa.positional[0])
			if err != nil {
				return zygo.SexpNull, err
			}
			b, err := lookupComponent(builtin, pa.positional[1])
			if err != nil {
				return zygo.SexpNull, err
			}
			var target *float64
			if wantTarget {
				var raw zygo.Sexp
				if len(pa.positional) > 2 {
					raw = pa.positional[2]
				} else if v, ok := pa.kw["target"]; ok {
					raw = v
				}
				if raw != nil {
					f, err := toFloat64(raw)
					if err != nil {
						return zygo.SexpNull, fmt.Errorf("%s: target: %w", builtin, err)
					}
					target = &f
				}
			}
			return addConstraint(t, a, b, target), nil
		}
	}

	// -----------------------------------------------------------------------
	// (assembly "wardrobe")
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}
		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		asm.Name = asmName
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (material :species "birch-ply" :thickness 18 :grade "B/BB")
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := assembly.MaterialSpec{}

		if v, ok := pa.kw["species"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: species: %w", err)
			}
			spec.Species = s
		}
		if v, ok := pa.kw["thickness"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: thickness: %w", err)
			}
			spec.Thickness = f
		}
		if v, ok := pa.kw["grade"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: grade: %w", err)
			}
			spec.Grade = s
		}

		return &sexpMaterial{spec: spec}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: geom.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (panel "side-left" :width 18 :height 720 :depth 560
	//        :material m :at (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("panel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("panel requires a name argument")
		}
		panelName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("panel: name: %w", err)
		}

		comp := &assembly.Component{
			ID:   panelName,
			Name: panelName,
		}
		if v, ok := pa.kw["width"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: width: %w", err)
			}
			comp.Dimensions.X = f
		}
		if v, ok := pa.kw["height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: height: %w", err)
			}
			comp.Dimensions.Y = f
		}
		if v, ok := pa.kw["depth"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: depth: %w", err)
			}
			comp.Dimensions.Z = f
		}
		if v, ok := pa.kw["material"]; ok {
			m, err := toMaterial(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: material: %w", err)
			}
			comp.Material = m
		}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: at: %w", err)
			}
			comp.Position = vec
		}

		if err := asm.AddComponent(comp); err != nil {
			return zygo.SexpNull, fmt.Errorf("panel: %w", err)
		}
		return &sexpComponentRef{id: comp.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (fixed "side-left") — anchor a panel at the origin
	// -----------------------------------------------------------------------
	env.AddFunction("fixed", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("fixed requires a component argument")
		}
		id, err := lookupComponent("fixed", args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return addConstraint(assembly.Fixed, id, "", nil), nil
	})

	// -----------------------------------------------------------------------
	// (distance "side-left" "side-right" 564)
	// (coincident "top" "side-left")
	// (parallel "side-left" "side-right")
	// (perpendicular "top" "side-left")
	// (angle "door" "side-left" 90)
	// -----------------------------------------------------------------------
	env.AddFunction("distance", binaryConstraint("distance", assembly.Distance, true))
	env.AddFunction("coincident", binaryConstraint("coincident", assembly.Coincident, false))
	env.AddFunction("parallel", binaryConstraint("parallel", assembly.Parallel, false))
	env.AddFunction("perpendicular", binaryConstraint("perpendicular", assembly.Perpendicular, false))
	env.AddFunction("angle", binaryConstraint("angle", assembly.Angle, true))
}
