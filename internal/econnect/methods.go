package econnect

import "context"

// Process lifecycle.

// PrepareProcess opens a new job and returns its portalProcessJobId.
func (g *Gateway) PrepareProcess(ctx context.Context, withAttributes bool, attrs CustomerAttributes) Envelope {
	return g.call(ctx, OpPrepareProcess, nil, withAttributes, attrs)
}

// CommitProcess hands a prepared job over for processing and returns the
// order number (portalProcessId).
func (g *Gateway) CommitProcess(ctx context.Context, jobID string) Envelope {
	return g.call(ctx, OpCommitProcess, Args{FieldPortalProcessJobID: jobID}, false, nil)
}

// Document submission.

func (g *Gateway) AddPBPInputSingleFileToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName string, withAttributes bool, attrs CustomerAttributes) Envelope {
	return g.call(ctx, OpAddPBPInputSingleFileToPreparedProcess, Args{
		FieldPortalProcessJobID: jobID,
		FieldFileAsByteArray:    file,
		FieldFileName:           fileName,
	}, withAttributes, attrs)
}

func (g *Gateway) AddPBPInputFileSplitOnFixedPageToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName string, pagesPerDocument int, withAttributes bool, attrs CustomerAttributes) Envelope {
	return g.call(ctx, OpAddPBPInputFileSplitOnFixedPageToPreparedProcess, Args{
		FieldPortalProcessJobID: jobID,
		FieldFileAsByteArray:    file,
		FieldFileName:           fileName,
		FieldPagesPerDocument:   pagesPerDocument,
	}, withAttributes, attrs)
}

func (g *Gateway) AddPBPInputFileSplitOnMarkToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName, textMark string, withAttributes bool, attrs CustomerAttributes) Envelope {
	return g.call(ctx, OpAddPBPInputFileSplitOnMarkToPreparedProcess, Args{
		FieldPortalProcessJobID: jobID,
		FieldFileAsByteArray:    file,
		FieldFileName:           fileName,
		FieldTextMark:           textMark,
	}, withAttributes, attrs)
}

// AddPBPInputCsvTemplateToPreparedProcess submits a CSV data file (file)
// together with the template it is merged into.
func (g *Gateway) AddPBPInputCsvTemplateToPreparedProcess(ctx context.Context, jobID string, file []byte, fileNameCsv, fileNameTemplate string, template []byte, withAttributes bool, attrs CustomerAttributes) Envelope {
	return g.call(ctx, OpAddPBPInputCsvTemplateToPreparedProcess, Args{
		FieldPortalProcessJobID:      jobID,
		FieldFileAsByteArray:         file,
		FieldFileNameCsv:             fileNameCsv,
		FieldFileNameTemplate:        fileNameTemplate,
		FieldFileTemplateAsByteArray: template,
	}, withAttributes, attrs)
}

func (g *Gateway) AddPBPFileAsAttachmentToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName string, withAttributes bool, attrs CustomerAttributes) Envelope {
	return g.call(ctx, OpAddPBPFileAsAttachmentToPreparedProcess, fileArgs(jobID, file, fileName), withAttributes, attrs)
}

func (g *Gateway) AddPBPFileAsLetterPaperToPreparedProcess(ctx context.Context, jobID string, file []byte, fileName string, withAttributes bool, attrs CustomerAttributes) Envelope {
	return g.call(ctx, OpAddPBPFileAsLetterPaperToPreparedProcess, fileArgs(jobID, file, fileName), withAttributes, attrs)
}

func (g *Gateway) AddPBPFileAsAttachmentToPreparedProcessAndInput(ctx context.Context, jobID string, file []byte, fileName, inputID string, withAttributes bool, attrs CustomerAttributes) Envelope {
	args := fileArgs(jobID, file, fileName)
	args[FieldInputID] = inputID
	return g.call(ctx, OpAddPBPFileAsAttachmentToPreparedProcessAndInput, args, withAttributes, attrs)
}

func (g *Gateway) AddPBPFileAsLetterPaperToPreparedProcessAndInput(ctx context.Context, jobID string, file []byte, fileName, inputID string, withAttributes bool, attrs CustomerAttributes) Envelope {
	args := fileArgs(jobID, file, fileName)
	args[FieldInputID] = inputID
	return g.call(ctx, OpAddPBPFileAsLetterPaperToPreparedProcessAndInput, args, withAttributes, attrs)
}

func fileArgs(jobID string, file []byte, fileName string) Args {
	return Args{
		FieldPortalProcessJobID: jobID,
		FieldFileAsByteArray:    file,
		FieldFileName:           fileName,
	}
}

// Status and attribute mutation.

func (g *Gateway) SetPortalProcessJobCustomerAttributeByPortalProcessJobID(ctx context.Context, jobID, attribute, value string) Envelope {
	return g.call(ctx, OpSetPortalProcessJobCustomerAttributeByPortalProcessJobId, Args{
		FieldPortalProcessJobID:     jobID,
		FieldCustomerAttribute:      attribute,
		FieldCustomerAttributeValue: value,
	}, false, nil)
}

func (g *Gateway) SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentIDs(ctx context.Context, jobID string, documentIDs []string, statusCode string) Envelope {
	return g.call(ctx, OpSetPortalDocumentStatusCodeByJobIdAndDocumentIds, Args{
		FieldPortalProcessJobID:       jobID,
		FieldPortalDocumentIDs:        documentIDs,
		FieldPortalDocumentStatusCode: statusCode,
	}, false, nil)
}

// SetPortalProcessJobStatusCodeByPortalProcessJobID is how a job prepared
// with pinProcessSilent=FALSE gets released (JobStatusDistributionReadyFor).
func (g *Gateway) SetPortalProcessJobStatusCodeByPortalProcessJobID(ctx context.Context, jobID, statusCode string) Envelope {
	return g.call(ctx, OpSetPortalProcessJobStatusCodeByPortalProcessJobId, Args{
		FieldPortalProcessJobID:         jobID,
		FieldPortalProcessJobStatusCode: statusCode,
	}, false, nil)
}

// SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentStatusCode
// moves every document of the job currently in currentStatusCode to
// statusCode.
func (g *Gateway) SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentStatusCode(ctx context.Context, jobID, currentStatusCode, statusCode string) Envelope {
	return g.call(ctx, OpSetPortalDocumentStatusCodeByJobIdAndStatusCode, Args{
		FieldPortalProcessJobID:              jobID,
		FieldCurrentPortalDocumentStatusCode: currentStatusCode,
		FieldPortalDocumentStatusCode:        statusCode,
	}, false, nil)
}

func (g *Gateway) SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentID(ctx context.Context, jobID, documentID, statusCode string) Envelope {
	return g.call(ctx, OpSetPortalDocumentStatusCodeByJobIdAndDocumentId, Args{
		FieldPortalProcessJobID:       jobID,
		FieldPortalDocumentID:         documentID,
		FieldPortalDocumentStatusCode: statusCode,
	}, false, nil)
}

// Job queries.

func (g *Gateway) jobQuery(ctx context.Context, op, jobID string) Envelope {
	return g.call(ctx, op, Args{FieldPortalProcessJobID: jobID}, false, nil)
}

func (g *Gateway) GetPortalProcessJobStatisticByPortalProcessJobID(ctx context.Context, jobID string) Envelope {
	return g.jobQuery(ctx, OpGetPortalProcessJobStatisticByPortalProcessJobId, jobID)
}

func (g *Gateway) GetPortalDocumentCollectionByPortalProcessJobID(ctx context.Context, jobID string) Envelope {
	return g.jobQuery(ctx, OpGetPortalDocumentCollectionByPortalProcessJobId, jobID)
}

func (g *Gateway) GetNumberOfDocumentsByPortalProcessJobID(ctx context.Context, jobID string) Envelope {
	return g.jobQuery(ctx, OpGetNumberOfDocumentsByPortalProcessJobId, jobID)
}

func (g *Gateway) FindPortalDocumentArticleInformationByPortalProcessJobID(ctx context.Context, jobID string) Envelope {
	return g.jobQuery(ctx, OpFindPortalDocumentArticleInformationByPortalProcessJobId, jobID)
}

func (g *Gateway) GetNumberOfPagesLogicalByPortalProcessJobID(ctx context.Context, jobID string) Envelope {
	return g.jobQuery(ctx, OpGetNumberOfPagesLogicalByPortalProcessJobId, jobID)
}

func (g *Gateway) GetPortalProcessJobByID(ctx context.Context, jobID string) Envelope {
	return g.jobQuery(ctx, OpGetPortalProcessJobById, jobID)
}

func (g *Gateway) FindPortalProcessJobCustomerAttributesByPortalProcessJobID(ctx context.Context, jobID string) Envelope {
	return g.jobQuery(ctx, OpFindPortalProcessJobCustomerAttributesByPortalProcessJobId, jobID)
}

func (g *Gateway) GetPortalProcessJobStatusCodeByPortalProcessJobID(ctx context.Context, jobID string) Envelope {
	return g.jobQuery(ctx, OpGetPortalProcessJobStatusCodeByPortalProcessJobId, jobID)
}

// Document queries. Binary and file payloads come back base64 encoded.

func (g *Gateway) documentQuery(ctx context.Context, op, documentID string) Envelope {
	return g.call(ctx, op, Args{FieldPortalDocumentID: documentID}, false, nil)
}

func (g *Gateway) GetPortalDocumentBinaryByPortalDocumentID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentBinaryByPortalDocumentId, documentID)
}

func (g *Gateway) GetPortalDocumentFileWithMarksByPortalDocumentID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentFileWithMarksByPortalDocumentId, documentID)
}

func (g *Gateway) GetPortalDocumentAddressImageFileByPortalDocumentID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentAddressImageFileByPortalDocumentId, documentID)
}

func (g *Gateway) GetPortalDocumentAddressImageBinaryByPortalDocumentID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentAddressImageBinaryByPortalDocumentId, documentID)
}

func (g *Gateway) GetPortalDocumentByID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentById, documentID)
}

func (g *Gateway) GetPortalDocumentFileByPortalDocumentID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentFileByPortalDocumentId, documentID)
}

func (g *Gateway) GetPortalDocumentErrorImageBinaryByPortalDocumentID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentErrorImageBinaryByPortalDocumentId, documentID)
}

func (g *Gateway) GetPortalDocumentErrorImageFileByPortalDocumentID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentErrorImageFileByPortalDocumentId, documentID)
}

func (g *Gateway) GetPortalDocumentImageFileWithMarksByPortalDocumentID(ctx context.Context, documentID string) Envelope {
	return g.documentQuery(ctx, OpGetPortalDocumentImageFileWithMarksByPortalDocumentId, documentID)
}
