package knowledge

// Document is a single knowledge-base entry. Immutable once loaded; the
// store is rebuilt wholesale on process restart.
type Document struct {
	Title string `json:"title"`
	Body  string `json:"content"`
}

// EmbedText returns the text used when ranking this document.
func (d Document) EmbedText() string {
	return d.Title + ": " + d.Body
}

// DefaultDocuments returns the built-in Malaysian loan knowledge used when
// no knowledge directory exists.
func DefaultDocuments() []Document {
	return []Document{
		{
			Title: "Personal Loan Eligibility",
			Body:  "Malaysian personal loan eligibility requires: minimum age 18-21, maximum age 55-65, minimum monthly income RM2,000-3,000, employment period minimum 6 months, CTOS score above 600, debt service ratio below 60%.",
		},
		{
			Title: "Housing Loan Requirements",
			Body:  "Malaysian housing loan requires: minimum income RM3,000, down payment 10%-20%, maximum loan tenure 35 years, debt service ratio below 70%, property valuation report, legal fees 0.25%-1%.",
		},
		{
			Title: "Car Loan Guidelines",
			Body:  "Malaysian car loan guidelines: maximum 90% financing, tenure up to 9 years, minimum income RM2,500, age limit 65 years, comprehensive insurance required, road tax and registration fees.",
		},
		{
			Title: "CTOS Credit Report",
			Body:  "CTOS credit report shows payment history, outstanding debts, legal cases, directorship information. Score ranges: 300-850, above 700 excellent, 650-699 good, 600-649 fair, below 600 poor. Cost RM25 per report.",
		},
		{
			Title: "Required Documents",
			Body:  "Standard loan documents: IC copy front/back, latest 3 months salary slip, latest 6 months bank statement, EPF statement, employment letter, CTOS report. Additional for housing: property documents, valuation report.",
		},
	}
}

// PresetDocuments returns the extended Malaysian loan knowledge enabled via
// knowledge.include_presets.
func PresetDocuments() []Document {
	return []Document{
		{
			Title: "Bank Negara Malaysia Guidelines",
			Body:  "BNM sets maximum debt service ratio at 60% for personal loans, 70% for housing loans. Cooling-off period 5 days for personal loans. Banks must conduct affordability assessment.",
		},
		{
			Title: "Popular Malaysian Banks",
			Body:  "Major banks: Maybank, CIMB, Public Bank, RHB, Hong Leong Bank, AmBank, Bank Islam, Bank Rakyat. Each has different eligibility criteria and interest rates.",
		},
		{
			Title: "Loan Interest Rates",
			Body:  "Current Malaysian rates (approximate): Personal loans 6-18%, Housing loans 3.5-4.5%, Car loans 2.5-4%. Rates vary by bank, loan amount, and credit score.",
		},
		{
			Title: "Government Loan Schemes",
			Body:  "PR1MA housing scheme, My First Home Scheme, Fund for Food scheme. Special rates and terms for first-time buyers and specific groups.",
		},
	}
}
