package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Сканер
	ScanInfo              Code = 1000
	ScanUnmatchedText     Code = 1001
	ScanClassificationGap Code = 1002
	ScanDroppedGap        Code = 1003

	// Конфигурация правил
	CfgInfo          Code = 2000
	CfgInvalidBounds Code = 2001
	CfgInvalidRule   Code = 2002

	// Ввод-вывод
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002
	IOCacheError    Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	ScanInfo:              "Scanner information",
	ScanUnmatchedText:     "Text matched by no rule was skipped",
	ScanClassificationGap: "Span matches no rule after reclassification",
	ScanDroppedGap:        "Unclassified span was dropped",
	CfgInfo:               "Configuration information",
	CfgInvalidBounds:      "Invalid bound value",
	CfgInvalidRule:        "Invalid rule definition",
	IOLoadFileError:       "I/O error loading input",
	IOWriteError:          "I/O error writing output",
	IOCacheError:          "Chunk cache unavailable",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SCN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
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
