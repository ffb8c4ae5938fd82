package ww

type byteClass uint8

const (
	classWord byteClass = iota
	classSpace
	classNewline
	classOtherSpace
)

var byteClasses = func() [256]byteClass {
	var out [256]byteClass
	out[' '] = classSpace
	out['\n'] = classNewline
	out['\t'] = classOtherSpace
	out['\v'] = classOtherSpace
	out['\f'] = classOtherSpace
	out['\r'] = classOtherSpace
	return out
}()

func classify(b byte) byteClass {
	return byteClasses[b]
}

// IsSpace reports whether b separates words. The set matches the C locale:
// space, tab, newline, vertical tab, form feed and carriage return.
func IsSpace(b byte) bool {
	return byteClasses[b] != classWord
}
