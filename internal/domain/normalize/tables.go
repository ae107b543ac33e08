package normalize

var fantasyPositions = map[string]struct{}{
	"QB":  {},
	"RB":  {},
	"WR":  {},
	"TE":  {},
	"K":   {},
	"DEF": {},
}

var positionAliases = map[string]string{
	"QB":            "QB",
	"QUARTERBACK":   "QB",
	"RB":            "RB",
	"HB":            "RB",
	"FB":            "RB",
	"RUNNING BACK":  "RB",
	"RUNNINGBACK":   "RB",
	"HALFBACK":      "RB",
	"FULLBACK":      "RB",
	"WR":            "WR",
	"WIDE RECEIVER": "WR",
	"RECEIVER":      "WR",
	"TE":            "TE",
	"TIGHT END":     "TE",
	"K":             "K",
	"PK":            "K",
	"KICKER":        "K",
	"PLACE KICKER":  "K",
	"DEF":           "DEF",
	"DST":           "DEF",
	"D/ST":          "DEF",
	"DEFENSE":       "DEF",
	"TEAM DEFENSE":  "DEF",
	"D":             "DEF",
	"DEFENSE/ST":    "DEF",
	"DEFENSE & ST":  "DEF",
	"SPECIAL TEAMS": "DEF",
}

// teamAliases covers canonical codes, historical and alternate abbreviations,
// and full city or nickname spellings.
var teamAliases = buildTeamAliases()

type team struct {
	code    string
	aliases []string
}

var teams = []team{
	{"ARI", []string{"ARZ", "ARIZONA", "CARDINALS", "ARIZONA CARDINALS", "PHO"}},
	{"ATL", []string{"ATLANTA", "FALCONS", "ATLANTA FALCONS"}},
	{"BAL", []string{"BLT", "BALTIMORE", "RAVENS", "BALTIMORE RAVENS"}},
	{"BUF", []string{"BUFFALO", "BILLS", "BUFFALO BILLS"}},
	{"CAR", []string{"CAROLINA", "PANTHERS", "CAROLINA PANTHERS"}},
	{"CHI", []string{"CHICAGO", "BEARS", "CHICAGO BEARS"}},
	{"CIN", []string{"CINCINNATI", "BENGALS", "CINCINNATI BENGALS"}},
	{"CLE", []string{"CLV", "CLEVELAND", "BROWNS", "CLEVELAND BROWNS"}},
	{"DAL", []string{"DALLAS", "COWBOYS", "DALLAS COWBOYS"}},
	{"DEN", []string{"DENVER", "BRONCOS", "DENVER BRONCOS"}},
	{"DET", []string{"DETROIT", "LIONS", "DETROIT LIONS"}},
	{"GB", []string{"GNB", "GREEN BAY", "PACKERS", "GREEN BAY PACKERS"}},
	{"HOU", []string{"HST", "HOUSTON", "TEXANS", "HOUSTON TEXANS"}},
	{"IND", []string{"INDIANAPOLIS", "COLTS", "INDIANAPOLIS COLTS"}},
	{"JAX", []string{"JAC", "JACKSONVILLE", "JAGUARS", "JACKSONVILLE JAGUARS"}},
	{"KC", []string{"KAN", "KCC", "KANSAS CITY", "CHIEFS", "KANSAS CITY CHIEFS"}},
	{"LV", []string{"OAK", "LVR", "RAI", "LAS VEGAS", "OAKLAND", "RAIDERS", "LAS VEGAS RAIDERS", "OAKLAND RAIDERS"}},
	{"LAC", []string{"SD", "SDG", "SAN DIEGO", "CHARGERS", "LOS ANGELES CHARGERS", "SAN DIEGO CHARGERS"}},
	{"LAR", []string{"STL", "LA", "RAM", "RAMS", "LOS ANGELES RAMS", "ST LOUIS RAMS", "ST. LOUIS RAMS"}},
	{"MIA", []string{"MIAMI", "DOLPHINS", "MIAMI DOLPHINS"}},
	{"MIN", []string{"MINNESOTA", "VIKINGS", "MINNESOTA VIKINGS"}},
	{"NE", []string{"NWE", "NEP", "NEW ENGLAND", "PATRIOTS", "NEW ENGLAND PATRIOTS"}},
	{"NO", []string{"NOR", "NOS", "NEW ORLEANS", "SAINTS", "NEW ORLEANS SAINTS"}},
	{"NYG", []string{"GIANTS", "NEW YORK GIANTS"}},
	{"NYJ", []string{"JETS", "NEW YORK JETS"}},
	{"PHI", []string{"PHILADELPHIA", "EAGLES", "PHILADELPHIA EAGLES"}},
	{"PIT", []string{"PITTSBURGH", "STEELERS", "PITTSBURGH STEELERS"}},
	{"SF", []string{"SFO", "SAN FRANCISCO", "49ERS", "NINERS", "SAN FRANCISCO 49ERS"}},
	{"SEA", []string{"SEATTLE", "SEAHAWKS", "SEATTLE SEAHAWKS"}},
	{"TB", []string{"TAM", "TBB", "TAMPA BAY", "BUCCANEERS", "BUCS", "TAMPA BAY BUCCANEERS"}},
	{"TEN", []string{"TENNESSEE", "TITANS", "TENNESSEE TITANS", "OTI"}},
	{"WAS", []string{"WSH", "WASHINGTON", "COMMANDERS", "WASHINGTON COMMANDERS"}},
}

// freeAgentMarkers normalize to the empty (unknown) team.
var freeAgentMarkers = []string{"FA", "FREE AGENT", "NONE", "N/A", "NULL", "-"}

func buildTeamAliases() map[string]string {
	m := make(map[string]string, len(teams)*6)
	for _, t := range teams {
		m[t.code] = t.code
		for _, a := range t.aliases {
			m[a] = t.code
		}
	}
	for _, a := range freeAgentMarkers {
		m[a] = ""
	}
	return m
}
