package quickbook

import "github.com/yaklabco/quickbook/pkg/value"

// Value tags. Doc info attributes are ordered the way they are emitted;
// SortList relies on it.
const (
	tagDocInfo value.Tag = iota
	tagDocQuickbook
	tagDocCompatibility
	tagDocID
	tagDocDirname
	tagDocLastRevision
	tagDocVersion
	tagDocLang
	tagDocSourceMode
	tagDocAuthors
	tagDocCopyright
	tagDocLicense
	tagDocPurpose
	tagDocCategory
	tagDocBiblioID
	tagDocUnknown

	tagTemplateBody
	tagTemplateArgs
	tagTemplateArg

	tagTable
	tagTableRow
	tagTableCell
	tagListItem
	tagImageAttribute
)
