// Package locale holds the user facing text of the form, the PDF and error notices in English and Dutch.
package locale

import "github.com/opinity/proposal-generator/internal/types"

// CompanyAddress is printed in every PDF footer.
const CompanyAddress = "Opinity B.V. | Rietbaan 8, Capelle aan den IJssel | www.opinity.nl"

// Headers are the section titles of a proposal.
type Headers struct {
	Challenge   string
	Approach    string
	Solution    string
	Trinity     string
	Investment  string
	VSMSession  string
	DoraMetrics string
	Backlog     string
	Mission     string
	Criteria    string
	Priority    string
}

// Errors are the notices shown after a failed action.
type Errors struct {
	ServiceUnavailable string
	InvalidFormat      string
	Unexpected         string
	Microphone         string
	EmptyNotes         string
}

// Strings is the complete text catalogue for one language.
type Strings struct {
	Tagline        string
	Title          string
	TitleAccent    string
	Subtitle       string
	InputTitle     string
	InputDesc      string
	Placeholder    string
	Generate       string
	Architecting   string
	DemoManual     string
	DemoCloud      string
	TryAgain       string
	Edit           string
	ExportPDF      string
	ExportJSON     string
	ExportCSV      string
	ExportBundle   string
	Record         string
	Stop           string
	Transcribing   string
	BudgetTitle    string
	Engineers      string
	Hours          string
	TotalEstimate  string
	RateLabel      string
	LinkedInTitle  string
	LinkedInHint   string
	LinkedInDesc   string
	PDFTitle       string
	PDFDate        string
	Headers        Headers
	Errors         Errors
	DemoNotes      map[string]string
}

var english = Strings{
	Tagline:       `"Taking the lead. IT professionals who step up."`,
	Title:         "Sales Workflow",
	TitleAccent:   "Optimized",
	Subtitle:      "Transform unstructured intake notes into engineer-first proposals. Zero admin waste. Maximum flow.",
	InputTitle:    "Input Raw Intake Notes",
	InputDesc:     "Paste your rough meeting notes, brain dumps, or transcript snippets here. The AI Architect will identify the waste, structure the solution, and apply the Opinity DNA.",
	Placeholder:   "// Paste notes here...\ne.g. Client is struggling with deployments. Takes 3 days to release. Team is frustrated. They use Azure DevOps but mostly manual. Need help ASAP.",
	Generate:      "Generate Proposal",
	Architecting:  "Architecting...",
	DemoManual:    "Demo 1: Manual",
	DemoCloud:     "Demo 2: Cloud",
	TryAgain:      "Try Again",
	Edit:          "Edit / New",
	ExportPDF:     "Export PDF",
	ExportJSON:    "Azure DevOps JSON",
	ExportCSV:     "Azure DevOps CSV",
	ExportBundle:  "Download all",
	Record:        "Record Voice Note",
	Stop:          "Stop & Transcribe",
	Transcribing:  "Transcribing Audio...",
	BudgetTitle:   "Budget Estimator",
	Engineers:     "Engineers",
	Hours:         "Hours",
	TotalEstimate: "Total Estimate",
	RateLabel:     "€140/hr",
	LinkedInTitle: "LinkedIn Intelligence",
	LinkedInHint:  "Paste Client LinkedIn URL...",
	LinkedInDesc:  "AI adapts tone (Technical vs Business) based on profile.",
	PDFTitle:      "TECHNICAL PROPOSAL",
	PDFDate:       "Date",
	Headers: Headers{
		Challenge:   "The Challenge",
		Approach:    "Pragmatic Approach",
		Solution:    "The Solution",
		Trinity:     "Opinity Trinity",
		Investment:  "Investment",
		VSMSession:  "Value Stream Mapping Session",
		DoraMetrics: "DORA Metrics",
		Backlog:     "Azure DevOps Backlog",
		Mission:     "Project Mission",
		Criteria:    "Acceptance Criteria",
		Priority:    "Priority",
	},
	Errors: Errors{
		ServiceUnavailable: "Could not reach the AI service. Please try again.",
		InvalidFormat:      "AI generated an invalid format. Please try again.",
		Unexpected:         "An unexpected error occurred.",
		Microphone:         "Microphone access denied or error.",
		EmptyNotes:         "Please enter intake notes first.",
	},
	DemoNotes: map[string]string{
		"manual": `Client: TechCorp Logistics.
Problem: Deployments are a nightmare. It takes 3 days to get code to production.
Process: Developers copy DLLs manually to servers.
Team State: Frustrated, burnout risk. Blaming each other.
Current Stack: Legacy .NET 4.8, On-prem IIS, SQL Server.
Goal: They want "DevOps" but don't know where to start. Need faster time-to-market.`,
		"cloud": `Client: FinService Bank.
Context: Migrating to Azure.
Issues: "Lift and shift" went wrong. Costs are exploding. No Infrastructure as Code (IaC).
Developers have no access to logs, so they call Ops for everything.
Waste: Waiting times are huge.
Requirement: Need a roadmap to Cloud Native and a culture change.`,
	},
}

var dutch = Strings{
	Tagline:       `"Het voortouw nemen. IT-professionals die opstaan."`,
	Title:         "Sales Workflow",
	TitleAccent:   "Geoptimaliseerd",
	Subtitle:      "Zet ongestructureerde notities om in engineer-first voorstellen. Geen administratieve rompslomp. Maximale flow.",
	InputTitle:    "Invoer Ruwe Intake Notities",
	InputDesc:     "Plak hier je ruwe gespreksnotities. De AI Architect identificeert de verspilling, structureert de oplossing en past het Opinity DNA toe.",
	Placeholder:   "// Plak notities hier...\nbv. Klant worstelt met deployments. Duurt 3 dagen voor release. Team is gefrustreerd. Ze gebruiken Azure DevOps maar vooral handmatig. Hulp nodig zsm.",
	Generate:      "Genereer Voorstel",
	Architecting:  "Architectuur bepalen...",
	DemoManual:    "Demo 1: Handmatig",
	DemoCloud:     "Demo 2: Cloud",
	TryAgain:      "Opnieuw proberen",
	Edit:          "Bewerken / Nieuw",
	ExportPDF:     "Exporteer PDF",
	ExportJSON:    "Azure DevOps JSON",
	ExportCSV:     "Azure DevOps CSV",
	ExportBundle:  "Alles downloaden",
	Record:        "Spreek Notitie In",
	Stop:          "Stop & Transcribeer",
	Transcribing:  "Audio verwerken...",
	BudgetTitle:   "Budget Schatting",
	Engineers:     "Engineers",
	Hours:         "Uren",
	TotalEstimate: "Totaal Schatting",
	RateLabel:     "€140/u",
	LinkedInTitle: "LinkedIn Intelligence",
	LinkedInHint:  "Plak LinkedIn URL van klant...",
	LinkedInDesc:  "AI past toon aan (Technisch vs Zakelijk) op basis van profiel.",
	PDFTitle:      "TECHNISCH VOORSTEL",
	PDFDate:       "Datum",
	Headers: Headers{
		Challenge:   "De Uitdaging",
		Approach:    "Pragmatische Aanpak",
		Solution:    "De Oplossing",
		Trinity:     "Opinity Drie-eenheid",
		Investment:  "Investering",
		VSMSession:  "Value Stream Mapping Sessie",
		DoraMetrics: "DORA Metrics",
		Backlog:     "Azure DevOps Backlog",
		Mission:     "Projectmissie",
		Criteria:    "Acceptatiecriteria",
		Priority:    "Prioriteit",
	},
	Errors: Errors{
		ServiceUnavailable: "De AI-service is niet bereikbaar. Probeer het opnieuw.",
		InvalidFormat:      "De AI genereerde een ongeldig formaat. Probeer het opnieuw.",
		Unexpected:         "Er is een onverwachte fout opgetreden.",
		Microphone:         "Microfoon toegang geweigerd of fout.",
		EmptyNotes:         "Vul eerst intake notities in.",
	},
	DemoNotes: map[string]string{
		"manual": `Klant: TechCorp Logistics.
Probleem: Deployments zijn een nachtmerrie. Het duurt 3 dagen om code naar productie te krijgen.
Proces: Ontwikkelaars kopiëren DLL's handmatig naar servers.
Team status: Gefrustreerd, risico op burn-out. Geven elkaar de schuld.
Huidige Stack: Legacy .NET 4.8, On-prem IIS, SQL Server.
Doel: Ze willen "DevOps" maar weten niet waar te beginnen. Snellere time-to-market nodig.`,
		"cloud": `Klant: FinService Bank.
Context: Migratie naar Azure.
Problemen: "Lift and shift" is mislukt. Kosten rijzen de pan uit. Geen Infrastructure as Code (IaC).
Ontwikkelaars hebben geen toegang tot logs, dus bellen ze Ops voor alles.
Verspilling: Enorme wachttijden.
Vraag: Roadmap nodig naar Cloud Native en een cultuuromslag.`,
	},
}

// For returns the catalogue of lang; unknown languages get English.
func For(lang types.Language) *Strings {
	if lang == types.LanguageDutch {
		return &dutch
	}
	return &english
}
