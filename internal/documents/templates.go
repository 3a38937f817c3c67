package documents

// Builtin document bodies keyed by document kind. Rendered with the same
// placeholder replacement as communication templates, then stored as the
// workflow's generated paperwork. Real letterheads are layered on by the
// front office when printing.
var builtinDocuments = map[string]string{
	"memorandum_of_sale": `<h1>Memorandum of Sale</h1>
<p>Property: {{property_address}}</p>
<p>Vendor: {{client_name}}</p>
<p>Agreed price: {{agreed_price}}</p>
<p>This memorandum records the sale agreed subject to contract.</p>`,

	"completion_statement": `<h1>Completion Statement</h1>
<p>Property: {{property_address}}</p>
<p>Client: {{client_name}}</p>
<p>Sale price: {{agreed_price}}</p>
<p>Agency fee: {{fee}}</p>`,

	"tenancy_agreement": `<h1>Assured Shorthold Tenancy Agreement</h1>
<p>Property: {{property_address}}</p>
<p>Landlord: {{client_name}}</p>
<p>Rent: {{agreed_price}} per annum</p>`,

	"inventory_report": `<h1>Inventory and Schedule of Condition</h1>
<p>Property: {{property_address}}</p>
<p>Prepared for: {{client_name}}</p>
<p>To be completed at check-in.</p>`,
}
