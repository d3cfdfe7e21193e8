package models

type Page struct {
	Path    string  `json:"path"`
	Name    string  `json:"name"`
	Section Section `json:"section"`
}

var Pages = []Page{
	{Path: "/", Name: "Dashboard", Section: SectionDashboard},
	{Path: "/create-new", Name: "Create New", Section: SectionCreateNew},
	{Path: "/cpv", Name: "CPV", Section: SectionCPV},
	{Path: "/assign", Name: "Assign", Section: SectionAssign},
	{Path: "/worklist", Name: "Worklist", Section: SectionWorklist},
	{Path: "/nr", Name: "NR", Section: SectionNR},
	{Path: "/np", Name: "NP", Section: SectionNP},
	{Path: "/pr", Name: "PR", Section: SectionPR},
	{Path: "/trend-analysis", Name: "Trend Analysis", Section: SectionTrendAnalysis},
	{Path: "/deleted-listings", Name: "Deleted Listings", Section: SectionDeletedListings},
	{Path: "/data-block", Name: "Data Block", Section: SectionDataBlock},
	{Path: "/draft", Name: "Draft", Section: SectionDraft},
}

// PublicPaths never go through the permission gate.
var PublicPaths = []string{"/auth", "/unauthorized"}

func PageFor(path string) (Page, bool) {
	for _, p := range Pages {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}

func IsPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if p == path {
			return true
		}
	}
	return false
}
