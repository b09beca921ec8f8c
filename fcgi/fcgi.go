package fcgi

import (
	"encoding/binary"
	"io"
)

type recType uint8

const (
	typeBeginRequest recType = iota + 1
	typeAbortRequest
	typeEndRequest
	typeParams
	typeStdin
	typeStdout
	typeStderr
	typeData
	typeGetValues
	typeGetValuesResult
	typeUnknownType
)

type header struct {
	Version       uint8
	Type          recType
	ID            uint16
	ContentLength uint16
	PaddingLength uint8
	Reserved      uint8
}

const (
	maxWrite            = 65535
	maxPad              = 0
	fcgiVersion  uint8  = 1
	flagKeepConn uint8  = 1
	requestID    uint16 = 1
)

const (
	roleResponder uint16 = iota + 1
	roleAuthorizer
	roleFilter
)

const (
	statusRequestComplete = iota
	statusCantMultiplex
	statusOverloaded
	statusUnknownRole
)

// Write the beginning of a request into the given connection. The
// keep-conn flag is always set; whether the backend honors it is its
// own business, we close the connection after one exchange anyway.
func writeBeginReq(c io.Writer, w *buffer, id uint16) error {
	binary.Write(w, binary.BigEndian, roleResponder) // role
	binary.Write(w, binary.BigEndian, flagKeepConn)  // flags
	w.Write([]byte{0, 0, 0, 0, 0})                   // reserved
	return w.WriteRecord(c, id, typeBeginRequest)
}

// Encode the length of a key or value using FCGIs compressed length
// scheme. The encoded length is placed in b and the number of bytes
// that were required to encode the length is returned.
func encodeLength(b []byte, n uint32) int {
	if n > 127 {
		n |= 1 << 31
		binary.BigEndian.PutUint32(b, n)
		return 4
	}
	b[0] = byte(n)
	return 1
}

// Encode and write the given parameters into the connection, followed
// by the empty params record that terminates the stream. Params may be
// fragmented into several records if they will not fit into one write.
func writeParams(c io.Writer, w *buffer, id uint16, params map[string]string) error {
	var b [8]byte
	for key, val := range params {
		// encode the key's length
		n := encodeLength(b[:], uint32(len(key)))

		// encode the value's length
		n += encodeLength(b[n:], uint32(len(val)))

		// the total length of this param
		t := n + len(key) + len(val)

		// this param itself is so big, it cannot fit into a
		// write so we just discard it.
		if t > w.Cap() {
			continue
		}

		// if this param would overflow the current buffer, go ahead
		// and send it.
		if t > w.Free() {
			if err := w.WriteRecord(c, id, typeParams); err != nil {
				return err
			}
		}

		w.Write(b[:n])
		w.Write([]byte(key))
		w.Write([]byte(val))
	}

	if w.Len() > 0 {
		if err := w.WriteRecord(c, id, typeParams); err != nil {
			return err
		}
	}

	// send the empty params record
	return w.WriteRecord(c, id, typeParams)
}

// Copy the data from the given reader into the connection as stdin,
// one record per chunk, without ever holding more than one record's
// worth of the body in memory. The empty stdin record terminates the
// stream.
func writeStdin(c io.Writer, w *buffer, id uint16, r io.Reader) error {
	if r != nil {
		for {
			n, err := w.CopyFrom(r)
			if n > 0 {
				if werr := w.WriteRecord(c, id, typeStdin); werr != nil {
					return werr
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
		}
	}

	return w.WriteRecord(c, id, typeStdin)
}
