package sheetsim

// state is one row of the simulated sheet before any votes are reported.
type state struct {
	name    string
	units   int     // electoral votes
	turnout int     // ballots expected once fully reported
	lean    float64 // expected dem share of the two-party vote
}

// electoralTable is the 2024 apportionment: 50 states plus DC, 538 votes.
var electoralTable = []state{ //nolint:gochecknoglobals // read-only table
	{"Alabama", 9, 2_265_000, 0.35},
	{"Alaska", 3, 338_000, 0.42},
	{"Arizona", 11, 3_390_000, 0.47},
	{"Arkansas", 6, 1_182_000, 0.34},
	{"California", 54, 15_865_000, 0.60},
	{"Colorado", 10, 3_193_000, 0.55},
	{"Connecticut", 7, 1_759_000, 0.57},
	{"Delaware", 3, 512_000, 0.57},
	{"District of Columbia", 3, 325_000, 0.92},
	{"Florida", 30, 10_893_000, 0.43},
	{"Georgia", 16, 5_251_000, 0.49},
	{"Hawaii", 4, 516_000, 0.61},
	{"Idaho", 4, 905_000, 0.31},
	{"Illinois", 19, 5_634_000, 0.55},
	{"Indiana", 11, 2_937_000, 0.40},
	{"Iowa", 6, 1_664_000, 0.43},
	{"Kansas", 6, 1_327_000, 0.42},
	{"Kentucky", 8, 2_073_000, 0.34},
	{"Louisiana", 8, 2_006_000, 0.39},
	{"Maine", 4, 822_000, 0.53},
	{"Maryland", 10, 3_038_000, 0.63},
	{"Massachusetts", 11, 3_473_000, 0.62},
	{"Michigan", 15, 5_664_000, 0.49},
	{"Minnesota", 10, 3_253_000, 0.52},
	{"Mississippi", 6, 1_228_000, 0.38},
	{"Missouri", 10, 2_995_000, 0.41},
	{"Montana", 4, 602_000, 0.39},
	{"Nebraska", 5, 952_000, 0.39},
	{"Nevada", 6, 1_484_000, 0.48},
	{"New Hampshire", 4, 826_000, 0.51},
	{"New Jersey", 14, 4_272_000, 0.53},
	{"New Mexico", 5, 923_000, 0.53},
	{"New York", 28, 8_262_000, 0.56},
	{"North Carolina", 16, 5_699_000, 0.48},
	{"North Dakota", 3, 368_000, 0.31},
	{"Ohio", 17, 5_767_000, 0.44},
	{"Oklahoma", 7, 1_566_000, 0.32},
	{"Oregon", 8, 2_244_000, 0.56},
	{"Pennsylvania", 19, 7_058_000, 0.49},
	{"Rhode Island", 4, 512_000, 0.56},
	{"South Carolina", 9, 2_549_000, 0.41},
	{"South Dakota", 3, 428_000, 0.35},
	{"Tennessee", 11, 3_066_000, 0.35},
	{"Texas", 40, 11_388_000, 0.43},
	{"Utah", 6, 1_488_000, 0.39},
	{"Vermont", 3, 370_000, 0.65},
	{"Virginia", 13, 4_485_000, 0.53},
	{"Washington", 12, 3_924_000, 0.59},
	{"West Virginia", 4, 762_000, 0.29},
	{"Wisconsin", 10, 3_423_000, 0.49},
	{"Wyoming", 3, 269_000, 0.27},
}
