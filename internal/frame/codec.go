// Package frame implements the RCP wire format: device classes, the
// TestState status byte, and the inbound/outbound frame codec (C5 of the
// component design).
package frame

import (
	"encoding/binary"
	"math"

	"github.com/liquidrocketry/rcp-target/internal/ringbuf"
)

// MaxPayload is the largest payload a single frame can carry; the header
// byte's low six bits encode length in [0, 63].
const MaxPayload = 63

// Frame is one decoded inbound unit: header byte H, device-class byte D,
// and H&0x3F payload bytes.
type Frame struct {
	Channel Channel
	Device  DeviceClass
	Payload []byte
}

// Decode attempts to pull exactly one frame out of buf, per spec.md §4.2.
// It reports three outcomes:
//
//   - estop: the decoder observed the zero-length header sentinel. No
//     bytes are consumed (the original leaves them; the caller's ESTOP
//     path never returns in production).
//   - ok: a full frame was popped and its channel matches want.
//   - neither: the buffer doesn't yet hold a complete frame; try again
//     once more bytes arrive. This is also the result when a full frame
//     on another channel was popped: its bytes are consumed and Frame is
//     the zero value.
func Decode(buf *ringbuf.Buffer, want Channel) (fr Frame, ok bool, estop bool) {
	if buf.IsEmpty() {
		return Frame{}, false, false
	}
	h := buf.Peek(0)
	length := HeaderLen(h)
	if length == 0 {
		return Frame{}, false, true
	}
	total := length + 2
	if buf.Size() < total {
		return Frame{}, false, false
	}
	raw := make([]byte, total)
	for i := range raw {
		raw[i] = buf.Pop()
	}
	if HeaderChannel(raw[0]) != want {
		return Frame{}, false, false
	}
	return Frame{
		Channel: want,
		Device:  DeviceClass(raw[1]),
		Payload: raw[2:],
	}, true, false
}

// Writer is the narrow seam a frame is handed to for transmission: a
// single call per frame, per the ordering guarantee in spec.md §5(c).
type Writer interface {
	Write(buf []byte) (int, error)
}

// putTimestamp writes millis, big-endian, into buf[0:4].
func putTimestamp(buf []byte, millis uint32) {
	binary.BigEndian.PutUint32(buf, millis)
}

// EncodeTestState builds the 7-byte TestState report: header, devclass,
// 4-byte timestamp, 1-byte state.
func EncodeTestState(ch Channel, millis uint32, stateByte byte) []byte {
	buf := make([]byte, 2+4+1)
	buf[0] = Header(ch, 5)
	buf[1] = byte(TestState)
	putTimestamp(buf[2:], millis)
	buf[6] = stateByte
	return buf
}

// EncodeSimpleActuator builds the 8-byte simple-actuator reply: header,
// devclass, timestamp, id, state (0x80 on / 0x00 off).
func EncodeSimpleActuator(ch Channel, millis uint32, id byte, on bool) []byte {
	buf := make([]byte, 2+4+1+1)
	buf[0] = Header(ch, 6)
	buf[1] = byte(SimpleActuator)
	putTimestamp(buf[2:], millis)
	buf[6] = id
	if on {
		buf[7] = 0x80
	}
	return buf
}

// EncodeBoolSensor builds the 8-byte bool-sensor reply.
func EncodeBoolSensor(ch Channel, millis uint32, id byte, v bool) []byte {
	buf := make([]byte, 2+4+1+1)
	buf[0] = Header(ch, 6)
	buf[1] = byte(BoolSensor)
	putTimestamp(buf[2:], millis)
	buf[6] = id
	if v {
		buf[7] = 0x80
	}
	return buf
}

// putFloats appends n native-byte-order float32 cells to buf starting at
// offset off. Tests treat these as opaque 4-byte round-trip cells; the
// reference target is little-endian.
func putFloats(buf []byte, off int, vals ...float32) {
	for i, v := range vals {
		bits := math.Float32bits(v)
		binary.LittleEndian.PutUint32(buf[off+i*4:], bits)
	}
}

// encodeFloatReport builds a "TS(4) · id(1) · n*f32" report for devclass.
func encodeFloatReport(ch Channel, devclass DeviceClass, millis uint32, id byte, vals ...float32) []byte {
	n := len(vals)
	payloadLen := 1 + 4 + 4*n
	buf := make([]byte, 2+4+1+4*n)
	buf[0] = Header(ch, payloadLen)
	buf[1] = byte(devclass)
	putTimestamp(buf[2:], millis)
	buf[6] = id
	putFloats(buf, 7, vals...)
	return buf
}

// EncodeOneFloat builds a 11-byte one-float report.
func EncodeOneFloat(ch Channel, devclass DeviceClass, millis uint32, id byte, v float32) []byte {
	return encodeFloatReport(ch, devclass, millis, id, v)
}

// EncodeTwoFloat builds a 15-byte two-float report.
func EncodeTwoFloat(ch Channel, devclass DeviceClass, millis uint32, id byte, a, b float32) []byte {
	return encodeFloatReport(ch, devclass, millis, id, a, b)
}

// EncodeThreeFloat builds a 19-byte three-float report.
func EncodeThreeFloat(ch Channel, devclass DeviceClass, millis uint32, id byte, a, b, c float32) []byte {
	return encodeFloatReport(ch, devclass, millis, id, a, b, c)
}

// EncodeFourFloat builds a 23-byte four-float report.
func EncodeFourFloat(ch Channel, devclass DeviceClass, millis uint32, id byte, a, b, c, d float32) []byte {
	return encodeFloatReport(ch, devclass, millis, id, a, b, c, d)
}

// EncodePrompt builds a prompt-issue frame: header, PROMPT devclass,
// type byte, UTF-8 text. text must be at most 62 bytes (caller enforces).
func EncodePrompt(ch Channel, typ PromptDataType, text string) []byte {
	buf := make([]byte, 2+1+len(text))
	buf[0] = Header(ch, 1+len(text))
	buf[1] = byte(Prompt)
	buf[2] = byte(typ)
	copy(buf[3:], text)
	return buf
}

// EncodePromptReset builds the 3-byte prompt-reset frame.
func EncodePromptReset(ch Channel) []byte {
	buf := make([]byte, 3)
	buf[0] = Header(ch, 1)
	buf[1] = byte(Prompt)
	buf[2] = byte(PromptReset)
	return buf
}

// EncodeCustom builds a raw custom/string frame of len(data) bytes, for
// data up to MaxPayload bytes.
func EncodeCustom(ch Channel, data []byte) []byte {
	buf := make([]byte, 2+len(data))
	buf[0] = Header(ch, len(data))
	buf[1] = byte(Custom)
	copy(buf[2:], data)
	return buf
}

// DecodeFloat32 interprets 4 bytes at the reference target's native byte
// order (little-endian) as an IEEE-754 float32, the same convention
// EncodeOneFloat et al. use.
func DecodeFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
