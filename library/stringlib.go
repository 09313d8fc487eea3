package library

import (
	"strconv"
	"strings"

	"github.com/luacore/vm/errors"
	"github.com/luacore/vm/interp"
	"github.com/luacore/vm/value"
)

// RegisterString installs the non-pattern string functions grounded on
// lib_string.cpp: len, sub, upper, lower, byte, char, rep, and a format
// subset (%d %s %f %x %%). string.find/match/gmatch/gsub are pattern
// matching and stay out of scope per spec.md's Non-goals.
func RegisterString(r *Registry) {
	r.DefineModule("string", "len", stringLen)
	r.DefineModule("string", "sub", stringSub)
	r.DefineModule("string", "upper", stringUpper)
	r.DefineModule("string", "lower", stringLower)
	r.DefineModule("string", "byte", stringByte)
	r.DefineModule("string", "char", stringChar)
	r.DefineModule("string", "rep", stringRep)
	r.DefineModule("string", "format", stringFormat)
	Stub(r, "string", "find")
	Stub(r, "string", "match")
	Stub(r, "string", "gmatch")
	Stub(r, "string", "gsub")
}

func argString(vm *interp.VM, args []value.Value, i int, who string) (string, error) {
	v := arg(args, i)
	if s, ok := vm.ToDisplayString(v); ok {
		return s, nil
	}
	return "", errors.TypeError(errors.PhaseLibrary, "bad argument #%d to '%s' (string expected, got %s)", i+1, who, vm.TypeName(v))
}

// strIndex converts a Lua 1-based, possibly-negative string index to a
// 0-based Go byte offset, clamped to [0, length].
func strIndex(i, length int) int {
	if i < 0 {
		i = length + i + 1
	}
	if i < 1 {
		i = 1
	}
	if i > length+1 {
		i = length + 1
	}
	return i - 1
}

func stringLen(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	s, err := argString(vm, args, 0, "len")
	if err != nil {
		return nil, err
	}
	return []value.Value{value.FromDouble(float64(len(s)))}, nil
}

func stringSub(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	s, err := argString(vm, args, 0, "sub")
	if err != nil {
		return nil, err
	}
	i, j := 1, len(s)
	if n, ok := vm.ToNumber(arg(args, 1)); ok {
		i = int(n)
	}
	if n, ok := vm.ToNumber(arg(args, 2)); ok {
		j = int(n)
	}
	if j < 0 {
		j = len(s) + j + 1
	}
	if j > len(s) {
		j = len(s)
	}
	start := strIndex(i, len(s))
	if start >= j || start >= len(s) {
		return []value.Value{vm.StringValue("")}, nil
	}
	return []value.Value{vm.StringValue(s[start:j])}, nil
}

func stringUpper(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	s, err := argString(vm, args, 0, "upper")
	if err != nil {
		return nil, err
	}
	return []value.Value{vm.StringValue(strings.ToUpper(s))}, nil
}

func stringLower(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	s, err := argString(vm, args, 0, "lower")
	if err != nil {
		return nil, err
	}
	return []value.Value{vm.StringValue(strings.ToLower(s))}, nil
}

func stringByte(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	s, err := argString(vm, args, 0, "byte")
	if err != nil {
		return nil, err
	}
	i := 1
	if n, ok := vm.ToNumber(arg(args, 1)); ok {
		i = int(n)
	}
	j := i
	if n, ok := vm.ToNumber(arg(args, 2)); ok {
		j = int(n)
	}
	start := strIndex(i, len(s))
	stop := strIndex(j, len(s)) + 1
	if stop > len(s) {
		stop = len(s)
	}
	if start >= stop {
		return nil, nil
	}
	out := make([]value.Value, 0, stop-start)
	for k := start; k < stop; k++ {
		out = append(out, value.FromDouble(float64(s[k])))
	}
	return out, nil
}

func stringChar(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	b := make([]byte, len(args))
	for i, a := range args {
		n, ok := vm.ToNumber(a)
		if !ok {
			return nil, errors.DomainError(errors.PhaseLibrary, "bad argument #%d to 'char' (number expected)", i+1)
		}
		b[i] = byte(int(n))
	}
	return []value.Value{vm.StringValue(string(b))}, nil
}

func stringRep(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	s, err := argString(vm, args, 0, "rep")
	if err != nil {
		return nil, err
	}
	n, ok := vm.ToNumber(arg(args, 1))
	if !ok || n < 0 {
		return []value.Value{vm.StringValue("")}, nil
	}
	return []value.Value{vm.StringValue(strings.Repeat(s, int(n)))}, nil
}

// stringFormat implements the %d %s %f %x %% subset spec.md pins down;
// any other verb raises a domain error rather than silently passing it
// through, since this runtime carries no printf-width/precision parser.
func stringFormat(vm *interp.VM, args []value.Value) ([]value.Value, error) {
	format, err := argString(vm, args, 0, "format")
	if err != nil {
		return nil, err
	}
	var out strings.Builder
	argIdx := 1
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return nil, errors.DomainError(errors.PhaseLibrary, "invalid format string to 'format'")
		}
		switch format[i] {
		case '%':
			out.WriteByte('%')
		case 'd':
			n, _ := vm.ToNumber(arg(args, argIdx))
			argIdx++
			out.WriteString(strconv.FormatInt(int64(n), 10))
		case 's':
			s, _ := vm.ToDisplayString(arg(args, argIdx))
			argIdx++
			out.WriteString(s)
		case 'f':
			n, _ := vm.ToNumber(arg(args, argIdx))
			argIdx++
			out.WriteString(strconv.FormatFloat(n, 'f', 6, 64))
		case 'x':
			n, _ := vm.ToNumber(arg(args, argIdx))
			argIdx++
			out.WriteString(strconv.FormatInt(int64(n), 16))
		default:
			return nil, errors.DomainError(errors.PhaseLibrary, "invalid conversion '%%%c' to 'format'", format[i])
		}
	}
	return []value.Value{vm.StringValue(out.String())}, nil
}
