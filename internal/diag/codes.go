package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Rewrite rules. The last two digits match the rule's position in the chain.
	RwInfo            Code = 1000
	RwNamedBackref    Code = 1003
	RwAtomicGroup     Code = 1005
	RwUnicodeProperty Code = 1006
	RwLookbehind      Code = 1007
	RwAnyButNewline   Code = 1009
	RwConditional     Code = 1010

	// Verbose-mode normalization
	NrmInfo Code = 2000

	// Driver (fatal path)
	DrvInfo        Code = 3000
	DrvInvalidUTF8 Code = 3001
	DrvTooLong     Code = 3002
	DrvUnbalanced  Code = 3003
	DrvIndex       Code = 3004

	// Batch processing
	BatInfo       Code = 4000
	BatCacheError Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		RwInfo:            "Rewrite information",
		RwNamedBackref:    "Named back-reference has variant support",
		RwAtomicGroup:     "Atomic group downgraded to non-capturing group",
		RwUnicodeProperty: "Unicode property escape requires the u flag",
		RwLookbehind:      "Lookbehind assertion has variant support",
		RwAnyButNewline:   "Approximate rewrite of \\N",
		RwConditional:     "Conditional pattern unsupported",
		NrmInfo:           "Verbose-mode normalization",
		DrvInfo:           "Driver information",
		DrvInvalidUTF8:    "Pattern is not valid UTF-8",
		DrvTooLong:        "Pattern exceeds the maximum length",
		DrvUnbalanced:     "Group delimiters could not be balanced",
		DrvIndex:          "Pattern could not be indexed",
		BatInfo:           "Batch information",
		BatCacheError:     "Result cache unavailable",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("RW%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("NRM%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DRV%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("BAT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
