package ingest

import "context"

// SampleProvider serves a fixed batch of records resembling a typical day
// of East African procurement notices. It backs the "sample" source so the
// whole pipeline can run without network access or credentials.
type SampleProvider struct {
	cfg SourceConfig
}

func NewSampleProvider(cfg SourceConfig) *SampleProvider {
	return &SampleProvider{cfg: cfg}
}

func (p *SampleProvider) Name() string { return p.cfg.ID }

func (p *SampleProvider) Fetch(ctx context.Context) ([]FeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return []FeedItem{
		{
			ExternalID:   "PPIP-2026-0142",
			Title:        "Design and Development of an E-Government Citizen Services Portal",
			Description:  "<p>The Ministry seeks a qualified firm to design and develop a web portal with mobile-responsive pages, online citizen service application modules, database integration and ongoing software support.</p>",
			Organization: "Ministry of ICT and Digital Economy",
			RawValue:     "KES 28,500,000",
			RawDeadline:  "25/09/2026",
			RawPublished: "2026-08-20",
			SourceURL:    "https://tenders.go.ke/tender/PPIP-2026-0142",
			RequirementsRaw: "1. Registered ICT firm with at least 5 years experience;" +
				" 2. Three reference portal projects of similar scope;" +
				" 3. Valid tax compliance certificate",
			Location: "Nairobi",
		},
		{
			ExternalID:   "PPIP-2026-0150",
			Title:        "Supply and Installation of a Hospital Management Information System",
			Description:  "Supply, installation and commissioning of an integrated hospital management software system including patient records database, billing module and API integration with the national health registry.",
			Organization: "County Government of Kisumu",
			RawValue:     "Ksh 12,000,000",
			RawDeadline:  "2026-09-18",
			RawPublished: "2026-08-22",
			SourceURL:    "https://tenders.go.ke/tender/PPIP-2026-0150",
			Location:     "Kisumu",
		},
		{
			ExternalID:   "PPIP-2026-0151",
			Title:        "Construction of a Six-Classroom Block at Kibwezi Primary School",
			Description:  "Civil works for the construction of a six classroom block including foundations, walling, roofing and finishes.",
			Organization: "County Government of Makueni",
			RawValue:     "KES 9,800,000",
			RawDeadline:  "10/09/2026",
			RawPublished: "2026-08-21",
			SourceURL:    "https://tenders.go.ke/tender/PPIP-2026-0151",
			Location:     "Makueni",
		},
		{
			ExternalID:   "UNDP-2026-3321",
			Title:        "Consultancy for Digital Transformation Strategy and Capacity Building",
			Description:  "The United Nations Development Programme invites proposals for advisory services covering an ICT strategy review, digital transformation roadmap and capacity building workshops for county officials.",
			Organization: "United Nations Development Programme",
			RawValue:     "USD 85,000",
			RawDeadline:  "September 30, 2026",
			RawPublished: "2026-08-19",
			SourceURL:    "https://procurement-notices.undp.org/view_notice.cfm?id=3321",
			Location:     "Remote / Nairobi",
		},
		{
			ExternalID:   "PPIP-2026-0160",
			Title:        "Provision of Catering Services for Staff Cafeteria",
			Description:  "Framework contract for the provision of catering and cleaning services for the authority headquarters.",
			Organization: "Kenya Revenue Authority",
			RawValue:     "KES 6,200,000 per annum",
			RawDeadline:  "15/09/2026",
			RawPublished: "2026-08-23",
			SourceURL:    "https://tenders.go.ke/tender/PPIP-2026-0160",
			Location:     "Nairobi",
		},
	}, nil
}
