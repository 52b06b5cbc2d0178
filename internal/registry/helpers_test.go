package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// payloadLine builds a 15-field payload line. Cyrillic text in the unused
// columns exercises the Windows-1251 round trip.
func payloadLine(id, account, paymentSum, amount, transfer, commission string) string {
	return strings.Join([]string{
		"14-03-2017", "09-05-30", "0042", "007", id, account,
		"Иванов И.И.", "RUB", "", paymentSum, "", "", amount, transfer, commission,
	}, ";")
}

func sampleLines() []string {
	return []string{
		payloadLine("OP-1", "40817810099991234567", "1500.00", "1515,00", "1500,00", "15,00"),
		payloadLine("OP-2", "40817810099991234568", "200.50", "202,50", "200,50", "2,00"),
		payloadLine("OP-3", "40817810099991234569", "10", "10,10", "10,00", "0,10"),
		"=",
		"3;1727,60;1710,50;17,10;;",
	}
}

func writeRegistry(t *testing.T, lines []string) string {
	t.Helper()
	text := strings.Join(lines, "\r\n") + "\r\n"
	data, err := charmap.Windows1251.NewEncoder().String(text)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "registry.txt")
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	return path
}
