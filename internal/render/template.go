package render

// reportTemplate is the full report document. The #report-body region is
// one continuous flow with no manual page breaks; the paginator slices it
// on table borders. Every .page block is captured whole, one per PDF
// page. Image containers carry data-image-container so failed images are
// stripped before rasterization.
const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body {
	width: 900px;
	margin: 0;
	padding: 0;
	font-family: "Helvetica Neue", Arial, sans-serif;
	font-size: 13px;
	color: #000;
	background: #fff;
}
h1 {
	text-align: center;
	font-size: 20px;
	margin: 12px 0;
	text-transform: uppercase;
}
h2 {
	font-size: 15px;
	margin: 14px 0 6px 0;
}
table {
	width: 100%;
	border-collapse: collapse;
	margin-bottom: 14px;
}
th, td {
	border: 1px solid #000;
	padding: 6px 8px;
	text-align: left;
	vertical-align: top;
}
th {
	background: #e8e8e8;
}
td.num, th.num {
	text-align: right;
}
td.mark {
	text-align: center;
	width: 60px;
}
.page {
	page-break-before: always;
	padding: 24px 12px;
}
.page p {
	line-height: 1.6;
	text-align: justify;
}
.photo-grid {
	display: grid;
	grid-template-columns: 1fr 1fr;
	gap: 12px;
}
.photo-grid figure {
	margin: 0;
	text-align: center;
}
.photo-grid img {
	max-width: 100%;
	max-height: 280px;
}
.photo-grid figcaption {
	font-size: 12px;
	margin-top: 4px;
}
.image-page {
	page-break-before: always;
	text-align: center;
}
.image-page img {
	max-width: 100%;
}
.inline-photos img {
	max-width: 48%;
	margin: 4px 1%;
}
.sig-block {
	margin-top: 28px;
	width: 100%;
}
.sig-block td {
	border: none;
}
</style>
</head>
<body>

<div id="report-body">
	<h1>Valuation Report of Immovable Property</h1>

	<table>
		<tr><td>Name of the Client</td><td>{{.Field "clientName"}}</td></tr>
		<tr><td>Name of the Owner</td><td>{{.Field "ownerName"}}</td></tr>
		<tr><td>Mobile</td><td>{{.Field "mobile"}}</td></tr>
		<tr><td>Address</td><td>{{.Field "address"}}</td></tr>
		<tr><td>Name of the Bank</td><td>{{.Field "bankName"}}</td></tr>
		<tr><td>Branch</td><td>{{.Field "branchName"}}</td></tr>
		<tr><td>City</td><td>{{.Field "city"}}</td></tr>
		<tr><td>Purpose of Valuation</td><td>{{.Field "purposeOfValuation"}}</td></tr>
		<tr><td>Date of Inspection</td><td>{{.Date "inspectionDate"}}</td></tr>
		<tr><td>Date of Valuation</td><td>{{.Date "valuationDate"}}</td></tr>
		<tr><td>Documents Produced</td><td>{{.Field "documentsProduced"}}</td></tr>
	</table>

	<h2>Property Location</h2>
	<table>
		<tr><td>Address of the Property</td><td>{{.Field "propertyAddress"}}</td></tr>
		<tr><td>Plot No.</td><td>{{.Field "plotNo"}}</td></tr>
		<tr><td>Survey No.</td><td>{{.Field "surveyNo"}}</td></tr>
		<tr><td>Village</td><td>{{.Field "village"}}</td></tr>
		<tr><td>Taluka</td><td>{{.Field "taluka"}}</td></tr>
		<tr><td>District</td><td>{{.Field "district"}}</td></tr>
		<tr><td>State</td><td>{{.Field "state"}}</td></tr>
		<tr><td>PIN Code</td><td>{{.Field "pinCode"}}</td></tr>
		<tr><td>Landmark</td><td>{{.Field "nearbyLandmark"}}</td></tr>
		<tr><td>Latitude / Longitude</td><td>{{.Field "latitude"}} / {{.Field "longitude"}}</td></tr>
	</table>

	<h2>Area Classification</h2>
	<table>
		<tr><td>Nature of Locality</td><td>{{.Field "areaType"}}</td></tr>
		<tr><td>Classification of Area</td><td>{{.Field "classification"}}</td></tr>
		<tr><td>Urban / Semi-Urban / Rural</td><td>{{.Field "urbanType"}}</td></tr>
		<tr><td>Coming Under</td><td>{{.Field "comingUnder"}}</td></tr>
	</table>

	<h2>Boundaries of the Property</h2>
	<table>
		<tr><th>Direction</th><th>As per Deed</th><th>As per Site</th></tr>
		{{range .Boundaries}}<tr><td>{{.Label}}</td><td>{{.Deed}}</td><td>{{.Site}}</td></tr>
		{{end}}
	</table>

	<h2>Dimensions and Extent</h2>
	<table>
		<tr><td>Extent as per Deed</td><td>{{.Field "extentDeed"}}</td></tr>
		<tr><td>Extent as per Site</td><td>{{.Field "extentSite"}}</td></tr>
		<tr><td>Extent Considered for Valuation</td><td>{{.Field "extentConsidered"}}</td></tr>
	</table>

	<h2>Land Valuation</h2>
	<table>
		<tr><td>Area of the Land</td><td>{{.Field "landArea"}}</td></tr>
		<tr><td>Rate Adopted per Sq.ft</td><td>{{.Field "landRatePerSqft"}}</td></tr>
		<tr><td>Government Guideline Rate</td><td>{{.Field "guidelineRate"}}</td></tr>
		<tr><td>Prevailing Market Rate</td><td>{{.Field "prevailingMarketRate"}}</td></tr>
		<tr><td>Value of the Land</td><td>{{.Field "landValue"}}</td></tr>
	</table>

	<h2>Building Particulars</h2>
	<table>
		<tr><td>Type of Construction</td><td>{{.Field "constructionType"}}</td></tr>
		<tr><td>Year of Construction</td><td>{{.Field "yearOfConstruction"}}</td></tr>
		<tr><td>Number of Floors</td><td>{{.Field "numberOfFloors"}}</td></tr>
		<tr><td>Built-up Area</td><td>{{.Field "buildUpArea"}}</td></tr>
		<tr><td>Age of the Building</td><td>{{.Field "ageOfBuilding"}}</td></tr>
		<tr><td>Residual Life</td><td>{{.Field "residualLife"}}</td></tr>
		<tr><td>Foundation</td><td>{{.Field "foundationType"}}</td></tr>
		<tr><td>Roof</td><td>{{.Field "roofType"}}</td></tr>
		<tr><td>Flooring</td><td>{{.Field "flooringType"}}</td></tr>
	</table>

	<h2>Construction Cost Analysis</h2>
	<table>
		<tr><th>Item</th><th class="num">Amount</th></tr>
		{{range .CostItems}}<tr><td>{{.Label}}</td><td class="num">{{.Amount}}</td></tr>
		{{end}}
		<tr><th>Total</th><th class="num">{{.Field "constructionCostTotal"}}</th></tr>
	</table>

	<h2>Amenities</h2>
	<table>
		<tr><th>Amenity</th><th class="mark">Yes</th><th class="mark">No</th></tr>
		{{range .Amenities}}<tr><td>{{.Label}}</td><td class="mark">{{.Yes}}</td><td class="mark">{{.No}}</td></tr>
		{{end}}
	</table>

	<h2>Service Connections</h2>
	<table>
		<tr><th>Service</th><th class="mark">Yes</th><th class="mark">No</th></tr>
		{{range .Services}}<tr><td>{{.Label}}</td><td class="mark">{{.Yes}}</td><td class="mark">{{.No}}</td></tr>
		{{end}}
	</table>

	<h2>Checklist of Documents</h2>
	<table>
		<tr><th>Document</th><th class="mark">Yes</th><th class="mark">No</th></tr>
		{{range .Documents}}<tr><td>{{.Label}}</td><td class="mark">{{.Yes}}</td><td class="mark">{{.No}}</td></tr>
		{{end}}
	</table>

	<h2>Valuation Summary</h2>
	<table>
		<tr><td>Present Market Value</td><td>{{.Currency "presentMarketValue"}}</td></tr>
		<tr><td>Realizable Value</td><td>{{.Currency "realizableValue"}}</td></tr>
		<tr><td>Distress / Forced Sale Value</td><td>{{.Currency "distressValue"}}</td></tr>
		<tr><td>Insurable Value</td><td>{{.Currency "insurableValue"}}</td></tr>
		<tr><td>Guideline Value</td><td>{{.Currency "guidelineValue"}}</td></tr>
	</table>

	{{if .PropertyImages}}
	<h2>Property Photographs</h2>
	<div class="inline-photos">
		{{range .PropertyImages}}<span data-image-container><img src="{{.}}"></span>
		{{end}}
	</div>
	{{end}}

	<table class="sig-block">
		<tr>
			<td>Place: {{.Field "place"}}<br>Date: {{.Date "signatureDate"}}</td>
			<td style="text-align:right">{{.Field "valuerName"}}<br>{{.Field "valuerQualification"}}<br>Reg. No: {{.Field "valuerRegNo"}}</td>
		</tr>
	</table>
</div>

<div class="page" id="page-terms">
	<h2>Terms and Conditions of the Valuation</h2>
	<p>This report is prepared solely for the stated purpose of valuation and
	for the use of the client and the financing institution named herein. The
	valuation holds good only for the property described in this report and
	only as on the date of valuation. No responsibility is assumed for
	matters legal in nature, and no investigation of the title of the
	property has been made by the valuer.</p>
	<p>The estimates of value contained in this report are based on
	prevailing market conditions, government guideline rates and comparable
	transactions in the locality as on the date of inspection. Market
	conditions change over time and the values stated herein should not be
	relied upon at any materially later date without a fresh assessment.</p>
	<p>Measurements and extents have been taken from the documents produced
	and verified at site to the extent physically possible. Where the deed
	and site measurements differ, the lower of the two has been considered
	for valuation unless stated otherwise in the report.</p>
</div>

<div class="page" id="page-declaration">
	<h2>Declaration</h2>
	<p>I hereby declare that the information furnished in this report is true
	and correct to the best of my knowledge and belief. I have personally
	inspected the property on the date stated in this report. I have no
	direct or indirect interest, present or prospective, in the property
	valued or in the parties concerned.</p>
	<p>My fee for this assignment is not contingent upon the value reported.
	The analyses, opinions and conclusions set out herein were developed and
	this report has been prepared in conformity with the standards laid down
	by the institution requesting the valuation.</p>
</div>

<div class="page" id="page-code-of-conduct">
	<h2>Code of Conduct for Valuers</h2>
	<p>The valuer shall, in the conduct of business, follow a high standard
	of integrity, render at all times impartial and unbiased opinions of
	value, and discharge duties towards the client with competence, care and
	diligence.</p>
	<p>The valuer shall not accept an assignment where the fee is contingent
	upon the value reported, shall maintain confidentiality of all client
	information obtained in the course of the assignment, and shall disclose
	any circumstance that could reasonably be construed as a conflict of
	interest before accepting the assignment.</p>
	<p>The valuer shall maintain written records of the inspection, the data
	relied upon and the reasoning supporting the conclusions of value, and
	shall produce them when lawfully required to do so.</p>
</div>

{{range .AreaGrids}}
<div class="page" id="area-grid-{{.Index}}">
	<h2>Property Area Photographs</h2>
	<div class="photo-grid">
		{{range .Photos}}<figure data-image-container><img src="{{.URL}}"><figcaption>{{.Label}}</figcaption></figure>
		{{end}}
	</div>
</div>
{{end}}

{{range .LocationImages}}
<div class="image-page" data-image-container><img src="{{.}}"></div>
{{end}}

{{range .DocumentImages}}
<div class="image-page" data-image-container><img src="{{.}}"></div>
{{end}}

</body>
</html>
`
