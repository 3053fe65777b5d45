package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mimeframe/message/header"
)

func TestBreak_Bytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{}, header.Meh.Bytes())
	assert.Equal(t, []byte{0x0d, 0x0a}, header.CRLF.Bytes())
	assert.Equal(t, []byte{0x0a}, header.LF.Bytes())
}

func TestDetectBreak(t *testing.T) {
	t.Parallel()

	assert.Equal(t, header.CRLF, header.DetectBreak([]byte("A: b\r\nC: d\n")))
	assert.Equal(t, header.LF, header.DetectBreak([]byte("A: b\nC: d\r\n")))
	assert.Equal(t, header.LF, header.DetectBreak([]byte("\n")))
	assert.Equal(t, header.Meh, header.DetectBreak([]byte("A: b")))
}
