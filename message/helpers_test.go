package message_test

import "os"

func writeFile(fn, content string) error {
	return os.WriteFile(fn, []byte(content), 0o600)
}
