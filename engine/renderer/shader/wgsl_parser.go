package shader

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnsupportedBinding is returned when a shader declares a resource other than a buffer.
var ErrUnsupportedBinding = errors.New("unsupported resource binding")

// wgslVertexFormatMap maps the WGSL types accepted as vertex inputs to their wgpu vertex format.
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2u":     {wgpu.VertexFormatUint32x2, 8},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec3u":     {wgpu.VertexFormatUint32x3, 12},
	"vec3<u32>": {wgpu.VertexFormatUint32x3, 12},
	"vec4u":     {wgpu.VertexFormatUint32x4, 16},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
}

var (
	// structBlockRegex captures the name and body of a struct declaration.
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex captures a member's name and type after any attributes.
	// The type is greedy so array<T, N> survives intact.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, address space, variable name and type from
	// declarations such as `@group(0) @binding(0) var<uniform> frame: FrameUniforms;`.
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexLayouts builds one vertex buffer layout per attribute of the vertex input struct,
// sorted by @location. Each attribute lives in its own tightly packed buffer, so every layout
// has a single attribute at offset 0 and a stride equal to the attribute size.
//
// A vertex input struct is one with @location members and no @builtin member. Structs with a
// type that cannot be a vertex attribute are ignored.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - []wgpu.VertexBufferLayout: the layouts in buffer slot order, nil when there is no input struct
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	structs := parseStructBlocks(stripComments(source))

	var layouts []wgpu.VertexBufferLayout
	for _, ps := range structs {
		if !isVertexInputStruct(ps) {
			continue
		}
		perAttribute, ok := buildVertexBufferLayouts(ps)
		if !ok {
			continue
		}
		layouts = append(layouts, perAttribute...)
	}

	sort.SliceStable(layouts, func(i, j int) bool {
		return layouts[i].Attributes[0].ShaderLocation < layouts[j].Attributes[0].ShaderLocation
	})
	return layouts
}

// parseBindGroupLayouts turns every @group/@binding declaration into a layout entry with the
// given visibility. MinBindingSize is set from the bound type's WGSL size so the renderer can
// size the buffer from the layout alone.
//
// Only buffer resources (uniform and storage) are accepted; textures and samplers return
// ErrUnsupportedBinding.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - visibility: the shader stage visibility flag to set on each entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
//   - error: ErrUnsupportedBinding for a non-buffer declaration
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string, error) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)
	cleaned := stripComments(source)
	structSizes := computeStructSizes(parseStructBlocks(cleaned))

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		varName := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		bufferType, ok := classifyBuffer(addressSpace)
		if !ok {
			return nil, nil, fmt.Errorf("@group(%d) @binding(%d) %s: %s: %w", group, binding, varName, typeName, ErrUnsupportedBinding)
		}

		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: visibility,
		}
		entry.Buffer.Type = bufferType
		if layout, ok := resolveTypeLayout(typeName, structSizes); ok && layout.size > 0 {
			entry.Buffer.MinBindingSize = layout.size
		}
		groups[group] = append(groups[group], entry)

		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = varName
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("group %d", g),
			Entries: entries,
		}
	}
	return result, varNames, nil
}

// parseEntryPoint returns the name of the first function carrying the stage attribute,
// or an empty string.
func parseEntryPoint(source string, shaderType ShaderType) string {
	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

func parseStructFields(body string) []parsedField {
	members := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(members))

	for _, member := range members {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}

		fm := fieldRegex.FindStringSubmatch(member)
		if fm == nil {
			continue
		}
		field := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			location:  -1,
			isBuiltin: builtinRegex.MatchString(member),
		}
		if loc := locationRegex.FindStringSubmatch(member); loc != nil {
			if n, err := strconv.Atoi(loc[1]); err == nil {
				field.location = n
			}
		}
		fields = append(fields, field)
	}
	return fields
}

// isVertexInputStruct reports whether ps has at least one @location member and no @builtin
// member, which separates vertex inputs from stage outputs carrying @builtin(position).
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// buildVertexBufferLayouts returns a single-attribute layout for each member of ps.
// ok is false if any member type is not a vertex format.
func buildVertexBufferLayouts(ps parsedStruct) ([]wgpu.VertexBufferLayout, bool) {
	layouts := make([]wgpu.VertexBufferLayout, 0, len(ps.fields))
	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok || f.location < 0 {
			return nil, false
		}
		layouts = append(layouts, wgpu.VertexBufferLayout{
			ArrayStride: info.size,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{{
				Format:         info.format,
				Offset:         0,
				ShaderLocation: uint32(f.location),
			}},
		})
	}
	return layouts, true
}

// splitAtTopLevelCommas splits s at commas outside angle brackets, keeping array<T, N> whole.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
