package audiograph

import (
	"bytes"
	"io"
)

// EncodeWAV renders a StereoNode to a 16-bit PCM stereo WAV buffer at the
// given sample rate for durSeconds, behind a standard 44-byte RIFF/WAVE
// header.
func EncodeWAV(node StereoNode, sampleRate float64, durSeconds float64) []byte {
	n := int(durSeconds * sampleRate)
	if n < 0 {
		n = 0
	}
	frames := node.RenderStereo(n, sampleRate)

	buf := &bytes.Buffer{}
	dataBytes := uint32(len(frames) * 4)
	sr := uint32(sampleRate)

	buf.Write([]byte("RIFF"))
	writeUint32(buf, 36+dataBytes)
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	writeUint32(buf, 16)
	writeUint16(buf, 1) // PCM
	writeUint16(buf, 2) // stereo
	writeUint32(buf, sr)
	writeUint32(buf, sr*4)
	writeUint16(buf, 4)
	writeUint16(buf, 16)
	buf.Write([]byte("data"))
	writeUint32(buf, dataBytes)

	for _, f := range frames {
		writeInt16(buf, floatToPCM(f.L))
		writeInt16(buf, floatToPCM(f.R))
	}
	return buf.Bytes()
}

func floatToPCM(v float64) int16 {
	v = clamp(v, -1, 1)
	return int16(v * 32767)
}

func writeUint32(w io.Writer, v uint32) {
	w.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func writeUint16(w io.Writer, v uint16) {
	w.Write([]byte{byte(v), byte(v >> 8)})
}

func writeInt16(w io.Writer, v int16) {
	writeUint16(w, uint16(v))
}
