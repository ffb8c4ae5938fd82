package ww

const initialWordSize = 16

// wordBuffer accumulates the bytes of the word currently being read.
type wordBuffer struct {
	buf []byte
	arr [initialWordSize]byte
}

func (w *wordBuffer) append(b byte) {
	if w.buf == nil {
		w.buf = w.arr[:0]
	}
	if len(w.buf) == cap(w.buf) {
		grown := make([]byte, len(w.buf), 2*cap(w.buf))
		copy(grown, w.buf)
		w.buf = grown
	}
	w.buf = append(w.buf, b)
}

// take returns the current word. The slice is only valid until the next
// append or clear.
func (w *wordBuffer) take() []byte {
	return w.buf
}

func (w *wordBuffer) size() int {
	return len(w.buf)
}

func (w *wordBuffer) clear() {
	w.buf = w.buf[:0]
}
