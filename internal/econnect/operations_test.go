package econnect

import (
	"context"
	"testing"

	"github.com/jmehdipour/econnect-gateway/internal/soap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var credentialNames = []string{
	"referenceSenderFrontend",
	"codeFrontend",
	"referenceCustomerNumber",
	"referenceCustomerUser",
	"referenceCustomerBranch",
}

var pdf = []byte("%PDF-1.4")

// typedCalls invokes every operation through its typed method. Operations
// that accept customer attributes are called with the block enabled.
var typedCalls = map[string]func(ctx context.Context, g *Gateway) Envelope{
	OpPrepareProcess: func(ctx context.Context, g *Gateway) Envelope {
		return g.PrepareProcess(ctx, true, nil)
	},
	OpCommitProcess: func(ctx context.Context, g *Gateway) Envelope {
		return g.CommitProcess(ctx, "JOB")
	},
	OpAddPBPInputSingleFileToPreparedProcess: func(ctx context.Context, g *Gateway) Envelope {
		return g.AddPBPInputSingleFileToPreparedProcess(ctx, "JOB", pdf, "a.pdf", true, nil)
	},
	OpAddPBPInputFileSplitOnFixedPageToPreparedProcess: func(ctx context.Context, g *Gateway) Envelope {
		return g.AddPBPInputFileSplitOnFixedPageToPreparedProcess(ctx, "JOB", pdf, "a.pdf", 2, true, nil)
	},
	OpAddPBPInputFileSplitOnMarkToPreparedProcess: func(ctx context.Context, g *Gateway) Envelope {
		return g.AddPBPInputFileSplitOnMarkToPreparedProcess(ctx, "JOB", pdf, "a.pdf", "#SPLIT#", true, nil)
	},
	OpAddPBPInputCsvTemplateToPreparedProcess: func(ctx context.Context, g *Gateway) Envelope {
		return g.AddPBPInputCsvTemplateToPreparedProcess(ctx, "JOB", []byte("a;b"), "d.csv", "t.docx", pdf, true, nil)
	},
	OpAddPBPFileAsAttachmentToPreparedProcess: func(ctx context.Context, g *Gateway) Envelope {
		return g.AddPBPFileAsAttachmentToPreparedProcess(ctx, "JOB", pdf, "att.pdf", true, nil)
	},
	OpAddPBPFileAsLetterPaperToPreparedProcess: func(ctx context.Context, g *Gateway) Envelope {
		return g.AddPBPFileAsLetterPaperToPreparedProcess(ctx, "JOB", pdf, "lp.pdf", true, nil)
	},
	OpAddPBPFileAsAttachmentToPreparedProcessAndInput: func(ctx context.Context, g *Gateway) Envelope {
		return g.AddPBPFileAsAttachmentToPreparedProcessAndInput(ctx, "JOB", pdf, "att.pdf", "IN1", true, nil)
	},
	OpAddPBPFileAsLetterPaperToPreparedProcessAndInput: func(ctx context.Context, g *Gateway) Envelope {
		return g.AddPBPFileAsLetterPaperToPreparedProcessAndInput(ctx, "JOB", pdf, "lp.pdf", "IN1", true, nil)
	},
	OpGetPortalProcessJobStatisticByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalProcessJobStatisticByPortalProcessJobID(ctx, "JOB")
	},
	OpGetPortalDocumentBinaryByPortalDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentBinaryByPortalDocumentID(ctx, "DOC")
	},
	OpGetPortalDocumentFileWithMarksByPortalDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentFileWithMarksByPortalDocumentID(ctx, "DOC")
	},
	OpGetPortalDocumentCollectionByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentCollectionByPortalProcessJobID(ctx, "JOB")
	},
	OpGetPortalDocumentAddressImageFileByPortalDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentAddressImageFileByPortalDocumentID(ctx, "DOC")
	},
	OpGetNumberOfDocumentsByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetNumberOfDocumentsByPortalProcessJobID(ctx, "JOB")
	},
	OpSetPortalProcessJobCustomerAttributeByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.SetPortalProcessJobCustomerAttributeByPortalProcessJobID(ctx, "JOB", AttrPrintMode, PrintModeDuplex)
	},
	OpSetPortalDocumentStatusCodeByJobIdAndDocumentIds: func(ctx context.Context, g *Gateway) Envelope {
		return g.SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentIDs(ctx, "JOB", []string{"D1", "D2"}, "OK")
	},
	OpFindPortalDocumentArticleInformationByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.FindPortalDocumentArticleInformationByPortalProcessJobID(ctx, "JOB")
	},
	OpGetPortalDocumentAddressImageBinaryByPortalDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentAddressImageBinaryByPortalDocumentID(ctx, "DOC")
	},
	OpSetPortalProcessJobStatusCodeByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.SetPortalProcessJobStatusCodeByPortalProcessJobID(ctx, "JOB", JobStatusDistributionReadyFor)
	},
	OpGetPortalDocumentById: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentByID(ctx, "DOC")
	},
	OpGetPortalDocumentFileByPortalDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentFileByPortalDocumentID(ctx, "DOC")
	},
	OpGetPortalDocumentErrorImageBinaryByPortalDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentErrorImageBinaryByPortalDocumentID(ctx, "DOC")
	},
	OpGetPortalDocumentErrorImageFileByPortalDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentErrorImageFileByPortalDocumentID(ctx, "DOC")
	},
	OpGetNumberOfPagesLogicalByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetNumberOfPagesLogicalByPortalProcessJobID(ctx, "JOB")
	},
	OpGetPortalDocumentImageFileWithMarksByPortalDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalDocumentImageFileWithMarksByPortalDocumentID(ctx, "DOC")
	},
	OpGetPortalProcessJobById: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalProcessJobByID(ctx, "JOB")
	},
	OpFindPortalProcessJobCustomerAttributesByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.FindPortalProcessJobCustomerAttributesByPortalProcessJobID(ctx, "JOB")
	},
	OpSetPortalDocumentStatusCodeByJobIdAndStatusCode: func(ctx context.Context, g *Gateway) Envelope {
		return g.SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentStatusCode(ctx, "JOB", DocumentStatusWarningUserInteractionRequired, "OK")
	},
	OpSetPortalDocumentStatusCodeByJobIdAndDocumentId: func(ctx context.Context, g *Gateway) Envelope {
		return g.SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentID(ctx, "JOB", "DOC", "OK")
	},
	OpGetPortalProcessJobStatusCodeByPortalProcessJobId: func(ctx context.Context, g *Gateway) Envelope {
		return g.GetPortalProcessJobStatusCodeByPortalProcessJobID(ctx, "JOB")
	},
}

func TestCatalogIsComplete(t *testing.T) {
	ops := Operations()
	require.Len(t, ops, 32)
	assert.Len(t, typedCalls, 32)

	for _, op := range ops {
		_, ok := typedCalls[op.Name]
		assert.True(t, ok, "no typed method for %s", op.Name)

		got, ok := Lookup(op.Name)
		assert.True(t, ok)
		assert.Equal(t, op.Name, got.Name)
	}

	_, ok := Lookup("noSuchOperation")
	assert.False(t, ok)
}

func TestOperations_SuccessUnwrap(t *testing.T) {
	for _, op := range Operations() {
		t.Run(op.Name, func(t *testing.T) {
			reply := soap.Object{
				"portalProcessJobId": "JOB123",
				"portalProcessId":    "ORD456",
				"return":             "RET-" + op.Name,
				"extra":              soap.Object{"nested": "x"},
			}
			ft := &fakeTransport{replies: map[string]soap.Object{op.Name: reply}}
			g := newTestGateway(t, ft)

			env := typedCalls[op.Name](context.Background(), g)

			assert.Equal(t, 0, env.Error)
			assert.Equal(t, KindNone, env.Kind())
			if op.Unwrap == "" {
				assert.Equal(t, reply, env.Result)
			} else {
				assert.Equal(t, reply[op.Unwrap], env.Result)
			}
			assert.Equal(t, op.Name, ft.last(t).Operation)
		})
	}
}

func TestOperations_FaultBecomesEnvelope(t *testing.T) {
	for _, op := range Operations() {
		t.Run(op.Name, func(t *testing.T) {
			ft := &fakeTransport{errs: map[string]error{
				op.Name: &soap.Fault{Code: "soap:Server", Message: "X"},
			}}
			g := newTestGateway(t, ft)

			env := typedCalls[op.Name](context.Background(), g)

			assert.Equal(t, Envelope{Error: 1, Result: "X", kind: KindRemote}, env)
			assert.Equal(t, "X", env.Message())
		})
	}
}

func TestOperations_RequestFieldSet(t *testing.T) {
	for _, op := range Operations() {
		t.Run(op.Name, func(t *testing.T) {
			ft := &fakeTransport{}
			g := newTestGateway(t, ft)

			typedCalls[op.Name](context.Background(), g)

			want := append([]string{}, credentialNames...)
			for _, f := range op.Fields {
				want = append(want, f.Name)
			}
			if op.Attributes {
				want = append(want, FieldCustomerAttributes)
			}
			params := ft.last(t).Params
			assert.Equal(t, want, params.Names())

			v, _ := params.Get("codeFrontend")
			assert.Equal(t, "secret", v)
			v, _ = params.Get("referenceCustomerBranch")
			assert.Equal(t, "billing", v)
		})
	}
}

func TestOperations_TypedArgumentsOnTheWire(t *testing.T) {
	ft := &fakeTransport{}
	g := newTestGateway(t, ft)
	ctx := context.Background()

	g.AddPBPInputFileSplitOnFixedPageToPreparedProcess(ctx, "JOB", pdf, "a.pdf", 3, false, nil)
	params := ft.last(t).Params
	v, _ := params.Get(FieldFileAsByteArray)
	assert.Equal(t, pdf, v)
	v, _ = params.Get(FieldPagesPerDocument)
	assert.Equal(t, 3, v)

	g.SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentIDs(ctx, "JOB", []string{"D1", "D2"}, "OK")
	v, _ = ft.last(t).Params.Get(FieldPortalDocumentIDs)
	assert.Equal(t, []string{"D1", "D2"}, v)

	// the error image lookup is keyed by document id
	g.GetPortalDocumentErrorImageFileByPortalDocumentID(ctx, "DOC9")
	v, _ = ft.last(t).Params.Get(FieldPortalDocumentID)
	assert.Equal(t, "DOC9", v)

	g.SetPortalDocumentStatusCodeByPortalProcessJobIDAndPortalDocumentID(ctx, "JOB", "DOC", "OK")
	_, ok := ft.last(t).Params.Get("portalDocumentStatusCode")
	assert.True(t, ok)
}

func TestOperations_CustomerAttributesMergedPerCall(t *testing.T) {
	ft := &fakeTransport{}
	g := newTestGateway(t, ft)
	ctx := context.Background()

	g.PrepareProcess(ctx, true, CustomerAttributes{AttrPrintMode: PrintModeDuplex})
	v, ok := ft.last(t).Params.Get(FieldCustomerAttributes)
	require.True(t, ok)
	attrs := v.(map[string]string)
	assert.Len(t, attrs, 12)
	assert.Equal(t, PrintModeDuplex, attrs[AttrPrintMode])

	g.PrepareProcess(ctx, true, nil)
	v, _ = ft.last(t).Params.Get(FieldCustomerAttributes)
	assert.Equal(t, PrintModeSimplex, v.(map[string]string)[AttrPrintMode])

	g.PrepareProcess(ctx, false, CustomerAttributes{AttrPrintMode: PrintModeDuplex})
	_, ok = ft.last(t).Params.Get(FieldCustomerAttributes)
	assert.False(t, ok, "flag off sends no attribute block")
}
