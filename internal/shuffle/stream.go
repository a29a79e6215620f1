package shuffle

// LineStream is a lazy, finite, forward-only source of text lines with
// line terminators stripped. A stream may be consumed at most once;
// there is no rewind.
//
// Next returns the next line and true, or "" and false once the stream
// is exhausted or has failed. After Next returns false, Err reports the
// failure that ended the stream, if any.
type LineStream interface {
	Next() (line string, ok bool)
	Err() error
}

// sliceStream adapts an in-memory slice to a LineStream.
type sliceStream struct {
	lines []string
	pos   int
}

// Lines returns a LineStream over the given in-memory lines. It is
// intended for small inputs and tests; large corpora should stream from
// a decompressing reader instead.
func Lines(lines ...string) LineStream {
	return &sliceStream{lines: lines}
}

func (s *sliceStream) Next() (string, bool) {
	if s.pos >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true
}

func (s *sliceStream) Err() error { return nil }
