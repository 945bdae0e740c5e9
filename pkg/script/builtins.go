package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/RoberttBukowiecki/meble-sub001/pkg/design"
	"github.com/RoberttBukowiecki/meble-sub001/pkg/lifecycle"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to zygomys.
// It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: add-cabinet -> add_cabinet
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
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
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
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
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
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

// sexpCabinetRef wraps a cabinet id so it can be passed between builtins.
type sexpCabinetRef struct {
	id   design.CabinetID
	name string // human-readable name for error messages
}

func (c *sexpCabinetRef) SexpString(ps *zygo.PrintState) string {
	if c.name != "" {
		return fmt.Sprintf("(cabinet %q)", c.name)
	}
	return fmt.Sprintf("(cabinet %s)", c.id)
}
func (c *sexpCabinetRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a design.Vec3.
type sexpVec3 struct {
	vec design.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

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

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_kitchen) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toCabinetType converts a keyword or string to a design.CabinetType.
func toCabinetType(s zygo.Sexp) (design.CabinetType, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected cabinet type keyword: %w", err)
	}
	switch name {
	case "kitchen":
		return design.CabinetKitchen, nil
	case "wardrobe":
		return design.CabinetWardrobe, nil
	case "bookshelf":
		return design.CabinetBookshelf, nil
	case "drawer":
		return design.CabinetDrawer, nil
	}
	return 0, fmt.Errorf("invalid cabinet type %q, expected kitchen/wardrobe/bookshelf/drawer", name)
}

// toCabinetRef extracts a cabinet id from a sexpCabinetRef.
func toCabinetRef(s zygo.Sexp) (design.CabinetID, error) {
	if ref, ok := s.(*sexpCabinetRef); ok {
		return ref.id, nil
	}
	return "", fmt.Errorf("expected cabinet reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (design.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return design.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// paramsFromKW overlays keyword arguments onto a parameter struct. Shared
// between add-cabinet (zero base) and resize (current params base).
func paramsFromKW(pa kwArgs, params *design.CabinetParams) error {
	set := func(name string, dst *float64) error {
		if v, ok := pa.kw[name]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = f
		}
		return nil
	}
	if err := set("width", &params.Width); err != nil {
		return err
	}
	if err := set("height", &params.Height); err != nil {
		return err
	}
	if err := set("depth", &params.Depth); err != nil {
		return err
	}
	if v, ok := pa.kw["shelves"]; ok {
		n, err := toInt(v)
		if err != nil {
			return fmt.Errorf("shelves: %w", err)
		}
		params.ShelfCount = n
	}
	if v, ok := pa.kw["doors"]; ok {
		n, err := toInt(v)
		if err != nil {
			return fmt.Errorf("doors: %w", err)
		}
		params.DoorCount = n
		params.HasDoors = n > 0
	}
	if v, ok := pa.kw["drawers"]; ok {
		n, err := toInt(v)
		if err != nil {
			return fmt.Errorf("drawers: %w", err)
		}
		params.DrawerCount = n
	}
	if v, ok := pa.kw["back"]; ok {
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("back: %w", err)
		}
		params.HasBack = b
	}
	if v, ok := pa.kw["overlay"]; ok {
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("overlay: %w", err)
		}
		if b {
			params.TopBottomPlacement = design.PlacementOverlay
		} else {
			params.TopBottomPlacement = design.PlacementInset
		}
	}
	return nil
}

// registerBuiltins installs the scripting builtins into a zygomys
// environment. The builtins drive the lifecycle service, so every
// scripted edit lands in history like a UI edit would.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens become recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, svc *lifecycle.Service) {

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 numbers")
		}
		var vec design.Vec3
		for i, dst := range []*float64{&vec.X, &vec.Y, &vec.Z} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
			}
			*dst = f
		}
		return &sexpVec3{vec: vec}, nil
	})

	// -----------------------------------------------------------------------
	// (add-cabinet :type :kitchen :name "Base 600" :width 600 :height 720
	//              :depth 510 :shelves 1 :doors 2 :back true
	//              :body "mat-id" :front "mat-id" :at (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("add_cabinet", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		var params design.CabinetParams
		if v, ok := pa.kw["type"]; ok {
			t, err := toCabinetType(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-cabinet: type: %w", err)
			}
			params.Type = t
		}
		if err := paramsFromKW(pa, &params); err != nil {
			return zygo.SexpNull, fmt.Errorf("add-cabinet: %w", err)
		}

		cabName := fmt.Sprintf("%s cabinet", params.Type)
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-cabinet: name: %w", err)
			}
			cabName = s
		}

		var mats design.MaterialAssignments
		if v, ok := pa.kw["body"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-cabinet: body: %w", err)
			}
			mats.Body = design.MaterialID(s)
		} else if m := svc.Catalog.DefaultBody(); m != nil {
			mats.Body = m.ID
		}
		if v, ok := pa.kw["front"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-cabinet: front: %w", err)
			}
			mats.Front = design.MaterialID(s)
		}

		var at *design.Placement
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-cabinet: at: %w", err)
			}
			at = &design.Placement{Center: vec}
		}

		cab, err := svc.AddCabinet(cabName, params, mats, at, false)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-cabinet: %w", err)
		}
		return &sexpCabinetRef{id: cab.ID, name: cab.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (resize cab :width 800 :shelves 2)
	// -----------------------------------------------------------------------
	env.AddFunction("resize", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("resize requires a cabinet reference")
		}
		id, err := toCabinetRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("resize: %w", err)
		}
		cab := svc.Store.Cabinet(id)
		if cab == nil {
			return zygo.SexpNull, fmt.Errorf("resize: cabinet %s not found", id)
		}

		params := cab.Params
		if err := paramsFromKW(pa, &params); err != nil {
			return zygo.SexpNull, fmt.Errorf("resize: %w", err)
		}

		if _, err := svc.UpdateCabinetParams(id, params, design.Vec3{}, false); err != nil {
			return zygo.SexpNull, fmt.Errorf("resize: %w", err)
		}
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (move cab (vec3 600 0 0) :rotate-y 1.5708)
	// -----------------------------------------------------------------------
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("move requires a cabinet reference and a vec3")
		}
		id, err := toCabinetRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		center, err := toVec3(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}

		target := design.Placement{Center: center}
		if v, ok := pa.kw["rotate_y"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("move: rotate-y: %w", err)
			}
			target.Rotation.Y = f
		}

		if err := svc.UpdateCabinetTransform(id, target, false); err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (duplicate cab)
	// -----------------------------------------------------------------------
	env.AddFunction("duplicate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("duplicate requires a cabinet reference")
		}
		id, err := toCabinetRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("duplicate: %w", err)
		}
		cab, err := svc.DuplicateCabinet(id, false)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("duplicate: %w", err)
		}
		return &sexpCabinetRef{id: cab.ID, name: cab.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (remove cab)
	// -----------------------------------------------------------------------
	env.AddFunction("remove", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("remove requires a cabinet reference")
		}
		id, err := toCabinetRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove: %w", err)
		}
		if err := svc.RemoveCabinet(id, false); err != nil {
			return zygo.SexpNull, fmt.Errorf("remove: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (rename cab "New name")
	// -----------------------------------------------------------------------
	env.AddFunction("rename", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("rename requires a cabinet reference and a name")
		}
		id, err := toCabinetRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rename: %w", err)
		}
		newName, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rename: %w", err)
		}
		if err := svc.RenameCabinet(id, newName, false); err != nil {
			return zygo.SexpNull, fmt.Errorf("rename: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (undo) / (redo)
	// -----------------------------------------------------------------------
	env.AddFunction("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpBool{Val: svc.History.Undo()}, nil
	})
	env.AddFunction("redo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpBool{Val: svc.History.Redo()}, nil
	})

	// -----------------------------------------------------------------------
	// (cut-list)
	// -----------------------------------------------------------------------
	env.AddFunction("cut_list", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var sb strings.Builder
		for _, p := range svc.Store.Parts() {
			mat := ""
			if m := svc.Catalog.ByID(p.MaterialID); m != nil {
				mat = m.Name
			}
			fmt.Fprintf(&sb, "%-24s %7.1f x %7.1f x %5.1f  %-12s %s\n",
				p.Name, p.Width, p.Height, p.Depth, mat, p.EdgeBanding.String())
		}
		return &zygo.SexpStr{S: sb.String()}, nil
	})
}
