package schedule

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DomainModule is the domain prefix for module fingerprints. The version
// suffix allows future canonical-form migrations without silent collisions.
const DomainModule = "autosketch/module/v1"

// Fingerprint computes the content-addressed identity of a module.
//
// The fingerprint is SHA-256 over the canonical JSON rendering with domain
// separation (domain + 0x00 + payload). Structurally identical modules hash
// identically regardless of how they were produced, which is what sketch
// deduplication and the replay audit rely on.
func Fingerprint(m *Module) string {
	canonical := marshalCanonical(m)
	h := sha256.New()
	h.Write([]byte(DomainModule))
	h.Write([]byte{0x00})
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil))
}

// marshalCanonical renders the module as canonical JSON: object keys in
// sorted order, strings NFC-normalized, no floats, no insignificant
// whitespace. The module shape is closed, so the encoder is hand-rolled
// rather than reflective.
func marshalCanonical(m *Module) string {
	var sb strings.Builder
	sb.WriteString(`{"blocks":[`)
	for i, b := range m.Blocks {
		if i > 0 {
			sb.WriteString(",")
		}
		writeCanonicalBlock(&sb, b)
	}
	sb.WriteString(`],"outputs":[`)
	for i, out := range m.Outputs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(canonicalString(out))
	}
	sb.WriteString(`]}`)
	return sb.String()
}

func writeCanonicalBlock(sb *strings.Builder, b *Block) {
	fields := map[string]string{
		"name":  canonicalString(b.Name),
		"loops": canonicalLoops(b.Loops),
	}
	if b.TileLevels > 0 {
		fields["tile_levels"] = strconv.Itoa(b.TileLevels)
	}
	if b.UnrollFactor > 0 {
		fields["unroll_factor"] = strconv.Itoa(b.UnrollFactor)
	}
	if b.InlinedInto != "" {
		fields["inlined_into"] = canonicalString(b.InlinedInto)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(sb, "%s:%s", canonicalString(k), fields[k])
	}
	sb.WriteString("}")
}

func canonicalLoops(loops []Loop) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, l := range loops {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"extent":%d,"var":%s}`, l.Extent, canonicalString(l.Var))
	}
	sb.WriteString("]")
	return sb.String()
}

// canonicalString encodes a string as canonical JSON: NFC normalization,
// no HTML escaping, only control characters, backslash, and quote escaped.
func canonicalString(s string) string {
	normalized := norm.NFC.String(s)
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range normalized {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
