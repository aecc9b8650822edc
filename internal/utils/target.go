package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSpirvVersion parses a target version such as "1.3" or "spv1.5"
func ParseSpirvVersion(v string) (uint8, uint8, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "spv")

	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok {
		return 0, 0, fmt.Errorf("invalid SPIR-V version: %q", v)
	}

	major, err := strconv.ParseUint(majorStr, 10, 8)
	if err != nil || major != 1 {
		return 0, 0, fmt.Errorf("invalid SPIR-V version: %q", v)
	}

	minor, err := strconv.ParseUint(minorStr, 10, 8)
	if err != nil || minor > 6 {
		return 0, 0, fmt.Errorf("invalid SPIR-V version: %q", v)
	}

	return uint8(major), uint8(minor), nil
}

// ParseDefine splits a NAME or NAME=VALUE macro definition
func ParseDefine(d string) (string, string, error) {
	name, value, _ := strings.Cut(d, "=")
	name = strings.TrimSpace(name)

	if name == "" {
		return "", "", fmt.Errorf("invalid macro definition: %q", d)
	}

	for i, r := range name {
		isLetter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isLetter && (i == 0 || r < '0' || r > '9') {
			return "", "", fmt.Errorf("invalid macro name: %q", name)
		}
	}

	return name, value, nil
}
