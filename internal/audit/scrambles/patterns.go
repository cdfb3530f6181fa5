package scrambles

import "regexp"

// Per-event scramble grammars. Fixed-length events (2x2 through 7x7,
// clock, minx, pyram, skewb) have exact move counts; the move-count
// ranges on the others are heuristics that surface unusual scrambles.
var patterns = map[string]*regexp.Regexp{
	// 2x2x2 scrambles only have [RUF]['2]? moves and are standardized to 11 moves.
	"222": regexp.MustCompile(`^([RUF]['2]? ){10}[RUF]['2]?$`),
	// Requiring 13-25 moves for 3x3x3 serves as a heuristic to identify unusual scrambles.
	"333":   regexp.MustCompile(`^([RUFLDB]['2]? ){12,24}[RUFLDB]['2]?$`),
	"333bf": regexp.MustCompile(`^([RUFLDB]['2]? ){12,24}[RUFLDB]['2]?( [RUF]w['2]?){0,2}$`),
	"333fm": regexp.MustCompile(`^([RUFLDB]['2]? ){12,27}[RUFLDB]['2]?$`),
	"333ft": regexp.MustCompile(`^([RUFLDB]['2]? ){12,24}[RUFLDB]['2]?$`),
	// Every 333mbf scramble field holds multiple scrambles. The export
	// replaces '\n' by '|' but '\r\n' by ' |', so both separators must be
	// accepted or every scramble ever edited on Windows would be flagged.
	"333mbf": regexp.MustCompile(`^(([RUFLDB]['2]? ){12,24}[RUFLDB]['2]?( [RUF]w['2]?){0,2} ?($|\|)){2,}$`),
	"333oh":  regexp.MustCompile(`^([RUFLDB]['2]? ){12,24}[RUFLDB]['2]?$`),
	// Requiring 38-50 moves for 4x4x4 serves as a heuristic to identify unusual scrambles.
	"444":   regexp.MustCompile(`^([RUFLDB]w?['2]? ){37,49}[RUFLDB]w?['2]?$`),
	"444bf": regexp.MustCompile(`^([RUFLDB]w?['2]? ){37,49}[RUFLDB]w?['2]?( [xyz]['2]?){0,2}$`),
	// 5x5x5 scrambles consist of exactly 60 random moves.
	"555": regexp.MustCompile(`^([RUFLDB]w?['2]? ){59}[RUFLDB]w?['2]?$`),
	// 5x5x5 BLD adds three layer moves for orientation; the first of them
	// may cancel with the last normal move.
	"555bf": regexp.MustCompile(`^([RUFLDB]w?['2]? ){58,59}[RUFLDB]w?['2]?( 3[RUF]w['2]?){0,2}$`),
	// 6x6x6 scrambles consist of exactly 80 random moves.
	"666": regexp.MustCompile(`^(3?[RUFLDB]w?['2]? ){79}3?[RUFLDB]w?['2]?$`),
	// 7x7x7 scrambles consist of exactly 100 random moves.
	"777": regexp.MustCompile(`^(3?[RUFLDB]w?['2]? ){99}3?[RUFLDB]w?['2]?$`),
	"clock": regexp.MustCompile(`^UR[0-6][\+-] DR[0-6][\+-] DL[0-6][\+-] UL[0-6][\+-] ` +
		`U[0-6][\+-] R[0-6][\+-] D[0-6][\+-] L[0-6][\+-] ALL[0-6][\+-] y2 ` +
		`U[0-6][\+-] R[0-6][\+-] D[0-6][\+-] L[0-6][\+-] ALL[0-6][\+-]( UR)?( DR)?( DL)?( UL)?$`),
	"minx": regexp.MustCompile(`^((R(\+\+|--) D(\+\+|--) ){5}U'?($|\s)){7}$`),
	// Pyraminx scrambles are standardized to 11 moves, followed by
	// possible tip rotations in fixed order.
	"pyram": regexp.MustCompile(`^([RULB]'? ){10}[RULB]'?( u'?)?( l'?)?( r'?)?( b'?)?$`),
	"skewb": regexp.MustCompile(`^([RULB]'? ){10}[RULB]'?$`),
	// Requiring 8-15 (a,b) moves for SQ1 serves as a heuristic to identify unusual scrambles.
	"sq1": regexp.MustCompile(`^(\((-[1-5]|[0-6]),(-[1-5]|[0-6])\) / ){7,14}\((-[1-5]|[0-6]),(-[1-5]|[0-6])\)( /)?$`),
}

// Since late 2016, all 333fm scrambles carry R' U' F as a static pre- and
// suffix.
var pattern333fmNew = regexp.MustCompile(`^R' U' F ([RUFLDB]['2]? ){12,24}R' U' F$`)

// Patterns for the non-scramble columns of the Scrambles table.
var (
	// Scramble IDs just have to be numeric.
	patternScrambleID = regexp.MustCompile(`^[0-9]+$`)
	// Covers up to 78 groups (A - BZ).
	patternGroupID = regexp.MustCompile(`^[AB]?[A-Z]$`)
	patternIsExtra = regexp.MustCompile(`^[01]$`)
	// Between 1 and 5; also catches the weird yet valid case of
	// excessively many extra scrambles.
	patternScrambleNum = regexp.MustCompile(`^[1-5]$`)
)
