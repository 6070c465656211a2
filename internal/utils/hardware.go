package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// GetTerminalID reads the physical MAC address of the machine and hashes it
// into a short till identifier like "BIJULI-A1B2C3D4". It goes on every
// receipt header so paper can be traced back to the counter that printed it.
func GetTerminalID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "UNKNOWN-TERMINAL"
	}

	var macAddress string
	for _, i := range interfaces {
		// First active physical interface wins
		if i.Flags&net.FlagUp != 0 && len(i.HardwareAddr) > 0 {
			macAddress = i.HardwareAddr.String()
			break
		}
	}

	if macAddress == "" {
		return "UNKNOWN-TERMINAL"
	}

	hash := sha256.Sum256([]byte(macAddress + "BIJULI-POS-SALT"))
	hashString := hex.EncodeToString(hash[:])

	return "BIJULI-" + strings.ToUpper(hashString[:8])
}
