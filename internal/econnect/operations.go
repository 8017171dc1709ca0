package econnect

import "sort"

// Remote operation names as published by eConnect API 0.9.5.
const (
	OpPrepareProcess                                             = "prepareProcess"
	OpCommitProcess                                              = "commitProcess"
	OpAddPBPInputSingleFileToPreparedProcess                     = "addPBPInputSingleFileToPreparedProcess"
	OpAddPBPInputFileSplitOnFixedPageToPreparedProcess           = "addPBPInputFileSplitOnFixedPageToPreparedProcess"
	OpAddPBPInputFileSplitOnMarkToPreparedProcess                = "addPBPInputFileSplitOnMarkToPreparedProcess"
	OpAddPBPInputCsvTemplateToPreparedProcess                    = "addPBPInputCsvTemplateToPreparedProcess"
	OpAddPBPFileAsAttachmentToPreparedProcess                    = "addPBPFileAsAttachmentToPreparedProcess"
	OpAddPBPFileAsLetterPaperToPreparedProcess                   = "addPBPFileAsLetterPaperToPreparedProcess"
	OpAddPBPFileAsAttachmentToPreparedProcessAndInput            = "addPBPFileAsAttachmentToPreparedProcessAndInput"
	OpAddPBPFileAsLetterPaperToPreparedProcessAndInput           = "addPBPFileAsLetterPaperToPreparedProcessAndInput"
	OpGetPortalProcessJobStatisticByPortalProcessJobId           = "getPortalProcessJobStatisticByPortalProcessJobId"
	OpGetPortalDocumentBinaryByPortalDocumentId                  = "getPortalDocumentBinaryByPortalDocumentId"
	OpGetPortalDocumentFileWithMarksByPortalDocumentId           = "getPortalDocumentFileWithMarksByPortalDocumentId"
	OpGetPortalDocumentCollectionByPortalProcessJobId            = "getPortalDocumentCollectionByPortalProcessJobId"
	OpGetPortalDocumentAddressImageFileByPortalDocumentId        = "getPortalDocumentAddressImageFileByPortalDocumentId"
	OpGetNumberOfDocumentsByPortalProcessJobId                   = "getNumberOfDocumentsByPortalProcessJobId"
	OpSetPortalProcessJobCustomerAttributeByPortalProcessJobId   = "setPortalProcessJobCustomerAttributeByPortalProcessJobId"
	OpSetPortalDocumentStatusCodeByJobIdAndDocumentIds           = "setPortalDocumentStatusCodeByPortalProcessJobIdAndPortalDocumentIds"
	OpFindPortalDocumentArticleInformationByPortalProcessJobId   = "findPortalDocumentArticleInformationByPortalProcessJobId"
	OpGetPortalDocumentAddressImageBinaryByPortalDocumentId      = "getPortalDocumentAddressImageBinaryByPortalDocumentId"
	OpSetPortalProcessJobStatusCodeByPortalProcessJobId          = "setPortalProcessJobStatusCodeByPortalProcessJobId"
	OpGetPortalDocumentById                                      = "getPortalDocumentById"
	OpGetPortalDocumentFileByPortalDocumentId                    = "getPortalDocumentFileByPortalDocumentId"
	OpGetPortalDocumentErrorImageBinaryByPortalDocumentId        = "getPortalDocumentErrorImageBinaryByPortalDocumentId"
	OpGetPortalDocumentErrorImageFileByPortalDocumentId          = "getPortalDocumentErrorImageFileByPortalDocumentId"
	OpGetNumberOfPagesLogicalByPortalProcessJobId                = "getNumberOfPagesLogicalByPortalProcessJobId"
	OpGetPortalDocumentImageFileWithMarksByPortalDocumentId      = "getPortalDocumentImageFileWithMarksByPortalDocumentId"
	OpGetPortalProcessJobById                                    = "getPortalProcessJobById"
	OpFindPortalProcessJobCustomerAttributesByPortalProcessJobId = "findPortalProcessJobCustomerAttributesByPortalProcessJobId"
	OpSetPortalDocumentStatusCodeByJobIdAndStatusCode            = "setPortalDocumentStatusCodeByPortalProcessJobIdAndPortalDocumentStatusCode"
	OpSetPortalDocumentStatusCodeByJobIdAndDocumentId            = "setPortalDocumentStatusCodeByPortalProcessJobIdAndPortalDocumentId"
	OpGetPortalProcessJobStatusCodeByPortalProcessJobId          = "getPortalProcessJobStatusCodeByPortalProcessJobId"
)

// Wire names of request fields.
const (
	FieldPortalProcessJobID              = "portalProcessJobId"
	FieldPortalDocumentID                = "portalDocumentId"
	FieldPortalDocumentIDs               = "portalDocumentIds"
	FieldFileAsByteArray                 = "fileAsByteArray"
	FieldFileName                        = "fileName"
	FieldFileNameCsv                     = "fileNameCsv"
	FieldFileNameTemplate                = "fileNameTemplate"
	FieldFileTemplateAsByteArray         = "fileTemplateAsByteArray"
	FieldPagesPerDocument                = "pagesPerDocument"
	FieldTextMark                        = "textMark"
	FieldInputID                         = "inputId"
	FieldCustomerAttribute               = "customerAttribute"
	FieldCustomerAttributeValue          = "customerAttributeValue"
	FieldPortalDocumentStatusCode        = "portalDocumentStatusCode"
	FieldCurrentPortalDocumentStatusCode = "currentPortalDocumentStatusCode"
	FieldPortalProcessJobStatusCode      = "portalProcessJobStatusCode"
	FieldCustomerAttributes              = "customerAttributes"
)

type FieldKind int

const (
	FieldString FieldKind = iota
	FieldBytes
	FieldInt
	FieldList
)

func (k FieldKind) String() string {
	switch k {
	case FieldBytes:
		return "bytes"
	case FieldInt:
		return "int"
	case FieldList:
		return "list"
	default:
		return "string"
	}
}

type Field struct {
	Name string
	Kind FieldKind
}

// Operation describes one remote call: the fields it sends after the
// credentials, whether it accepts a customer attribute block, and which
// response field is returned. An empty Unwrap returns the whole response.
type Operation struct {
	Name       string
	Fields     []Field
	Attributes bool
	Unwrap     string
}

var (
	fJob      = Field{Name: FieldPortalProcessJobID}
	fDoc      = Field{Name: FieldPortalDocumentID}
	fFile     = Field{Name: FieldFileAsByteArray, Kind: FieldBytes}
	fFileName = Field{Name: FieldFileName}
)

var catalog = []Operation{
	{Name: OpPrepareProcess, Attributes: true, Unwrap: "portalProcessJobId"},
	{Name: OpCommitProcess, Fields: []Field{fJob}, Unwrap: "portalProcessId"},
	{Name: OpAddPBPInputSingleFileToPreparedProcess, Fields: []Field{fJob, fFile, fFileName}, Attributes: true, Unwrap: "return"},
	{Name: OpAddPBPInputFileSplitOnFixedPageToPreparedProcess, Fields: []Field{fJob, fFile, fFileName, {Name: FieldPagesPerDocument, Kind: FieldInt}}, Attributes: true, Unwrap: "return"},
	{Name: OpAddPBPInputFileSplitOnMarkToPreparedProcess, Fields: []Field{fJob, fFile, fFileName, {Name: FieldTextMark}}, Attributes: true},
	{Name: OpAddPBPInputCsvTemplateToPreparedProcess, Fields: []Field{fJob, fFile, {Name: FieldFileNameCsv}, {Name: FieldFileNameTemplate}, {Name: FieldFileTemplateAsByteArray, Kind: FieldBytes}}, Attributes: true},
	{Name: OpAddPBPFileAsAttachmentToPreparedProcess, Fields: []Field{fJob, fFile, fFileName}, Attributes: true},
	{Name: OpAddPBPFileAsLetterPaperToPreparedProcess, Fields: []Field{fJob, fFile, fFileName}, Attributes: true},
	{Name: OpAddPBPFileAsAttachmentToPreparedProcessAndInput, Fields: []Field{fJob, fFile, fFileName, {Name: FieldInputID}}, Attributes: true},
	{Name: OpAddPBPFileAsLetterPaperToPreparedProcessAndInput, Fields: []Field{fJob, fFile, fFileName, {Name: FieldInputID}}, Attributes: true},
	{Name: OpGetPortalProcessJobStatisticByPortalProcessJobId, Fields: []Field{fJob}},
	{Name: OpGetPortalDocumentBinaryByPortalDocumentId, Fields: []Field{fDoc}},
	{Name: OpGetPortalDocumentFileWithMarksByPortalDocumentId, Fields: []Field{fDoc}},
	{Name: OpGetPortalDocumentCollectionByPortalProcessJobId, Fields: []Field{fJob}},
	{Name: OpGetPortalDocumentAddressImageFileByPortalDocumentId, Fields: []Field{fDoc}},
	{Name: OpGetNumberOfDocumentsByPortalProcessJobId, Fields: []Field{fJob}},
	{Name: OpSetPortalProcessJobCustomerAttributeByPortalProcessJobId, Fields: []Field{fJob, {Name: FieldCustomerAttribute}, {Name: FieldCustomerAttributeValue}}},
	{Name: OpSetPortalDocumentStatusCodeByJobIdAndDocumentIds, Fields: []Field{fJob, {Name: FieldPortalDocumentIDs, Kind: FieldList}, {Name: FieldPortalDocumentStatusCode}}},
	{Name: OpFindPortalDocumentArticleInformationByPortalProcessJobId, Fields: []Field{fJob}},
	{Name: OpGetPortalDocumentAddressImageBinaryByPortalDocumentId, Fields: []Field{fDoc}},
	{Name: OpSetPortalProcessJobStatusCodeByPortalProcessJobId, Fields: []Field{fJob, {Name: FieldPortalProcessJobStatusCode}}},
	{Name: OpGetPortalDocumentById, Fields: []Field{fDoc}},
	{Name: OpGetPortalDocumentFileByPortalDocumentId, Fields: []Field{fDoc}},
	{Name: OpGetPortalDocumentErrorImageBinaryByPortalDocumentId, Fields: []Field{fDoc}},
	{Name: OpGetPortalDocumentErrorImageFileByPortalDocumentId, Fields: []Field{fDoc}},
	{Name: OpGetNumberOfPagesLogicalByPortalProcessJobId, Fields: []Field{fJob}},
	{Name: OpGetPortalDocumentImageFileWithMarksByPortalDocumentId, Fields: []Field{fDoc}},
	{Name: OpGetPortalProcessJobById, Fields: []Field{fJob}},
	{Name: OpFindPortalProcessJobCustomerAttributesByPortalProcessJobId, Fields: []Field{fJob}},
	{Name: OpSetPortalDocumentStatusCodeByJobIdAndStatusCode, Fields: []Field{fJob, {Name: FieldCurrentPortalDocumentStatusCode}, {Name: FieldPortalDocumentStatusCode}}},
	{Name: OpSetPortalDocumentStatusCodeByJobIdAndDocumentId, Fields: []Field{fJob, fDoc, {Name: FieldPortalDocumentStatusCode}}},
	{Name: OpGetPortalProcessJobStatusCodeByPortalProcessJobId, Fields: []Field{fJob}},
}

var byName = func() map[string]Operation {
	m := make(map[string]Operation, len(catalog))
	for _, op := range catalog {
		m[op.Name] = op
	}
	return m
}()

// Lookup returns the descriptor of a remote operation.
func Lookup(name string) (Operation, bool) {
	op, ok := byName[name]
	return op, ok
}

// Operations returns the catalog sorted by name.
func Operations() []Operation {
	out := make([]Operation, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (o Operation) field(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
