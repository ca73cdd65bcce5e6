package editor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Wav encodes a rendered buffer as an uncompressed RIFF/WAVE byte stream:
// 44-byte header followed by interleaved 16-bit signed little-endian PCM.
// Each float sample is clamped to [-1,1] and scaled by 32767 when positive
// and 32768 when negative, so the full range maps without overflow and zero
// stays centered. The layout is bit-exact and round-trips through ParseWav.
func Wav(buffer AudioBuffer) []byte {
	buf := new(bytes.Buffer)
	wavHeader(len(buffer)*NumChannels, buf)
	data := make([]int16, len(buffer)*NumChannels)
	for i, frame := range buffer {
		data[i*2] = pcm16(frame[0])
		data[i*2+1] = pcm16(frame[1])
	}
	binary.Write(buf, binary.LittleEndian, data)
	return buf.Bytes()
}

func pcm16(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	if v < 0 {
		return int16(v * 32768)
	}
	return int16(v * 32767)
}

// wavHeader writes a wave header for 16-bit PCM audio into the bytes.Buffer.
// bufferLength is the total number of samples (frames times channels).
// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
func wavHeader(bufferLength int, buf *bytes.Buffer) {
	bytesPerSample := 2
	chunkSize := 36 + bytesPerSample*bufferLength
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(16))          // fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))           // PCM
	binary.Write(buf, binary.LittleEndian, uint16(NumChannels)) // number of channels
	binary.Write(buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(SampleRate*NumChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(NumChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(bytesPerSample*bufferLength))
}

// ParseWav decodes a 16-bit PCM RIFF/WAVE byte stream at the engine sample
// rate into an AudioBuffer. Mono data is duplicated to both channels. Extra
// chunks between "fmt " and "data" are skipped. Files at other sample rates
// or in other sample formats are rejected; the import boundary falls back to
// the external decoder for those.
func ParseWav(data []byte) (AudioBuffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE stream")
	}
	var numChannels, bitsPerSample int
	var sampleRate int
	var pcm []byte
	sawFmt := false
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("chunk %q of %v bytes overruns the stream", id, size)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			format := int(binary.LittleEndian.Uint16(data[body : body+2]))
			if format != 1 {
				return nil, fmt.Errorf("unsupported wave format %v, only PCM is supported", format)
			}
			numChannels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			sawFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		pos = body + size
		if size%2 == 1 {
			pos++ // chunks are word aligned
		}
	}
	if !sawFmt || pcm == nil {
		return nil, errors.New("missing fmt or data chunk")
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth %v", bitsPerSample)
	}
	if sampleRate != SampleRate {
		return nil, fmt.Errorf("unsupported sample rate %v", sampleRate)
	}
	if numChannels != 1 && numChannels != 2 {
		return nil, fmt.Errorf("unsupported channel count %v", numChannels)
	}
	frameBytes := numChannels * 2
	frames := len(pcm) / frameBytes
	ret := make(AudioBuffer, frames)
	for i := 0; i < frames; i++ {
		left := sample16(pcm[i*frameBytes:])
		right := left
		if numChannels == 2 {
			right = sample16(pcm[i*frameBytes+2:])
		}
		ret[i] = [2]float32{left, right}
	}
	return ret, nil
}

func sample16(b []byte) float32 {
	v := int16(binary.LittleEndian.Uint16(b))
	if v < 0 {
		return float32(v) / 32768
	}
	return float32(v) / 32767
}
