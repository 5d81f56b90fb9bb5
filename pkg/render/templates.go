package render

// Widget fragment templates. Class names match the widget stylesheet; all
// dynamic values flow through html/template's contextual escaping.
const widgetTemplates = `
{{define "bubble"}}<div class="message {{.Role}}"><div class="message-content">{{.Content}}</div><div class="message-time">{{.Time}}</div></div>{{end}}

{{define "retry_notice"}}<div class="message bot transient"><div class="message-content">{{.Text}}</div></div>{{end}}

{{define "product_card"}}<div class="product-card"><a href="{{.URL}}" target="_blank" rel="noopener"><img src="{{.Image}}" alt="{{.Name}}" class="product-img"/></a><div class="product-info"><div class="product-name">{{.Name}}</div><div class="product-price">{{.MRP}}</div><div class="product-features">{{range .Features}}<span class="feature">{{.}}</span>{{end}}</div></div></div>{{end}}

{{define "carousel"}}<div class="carousel-wrapper"><button class="carousel-btn prev-btn">&#10094;</button><div class="carousel-container">{{range .Products}}{{template "product_card" .}}{{end}}</div><button class="carousel-btn next-btn">&#10095;</button></div>{{end}}

{{define "comparison"}}<div class="comparison-table-wrapper"><h3>Product Comparison</h3><table class="comparison-table"><thead><tr><th>Feature</th>{{range .Headers}}<th title="{{.Full}}">{{.Short}}</th>{{end}}</tr></thead><tbody>{{range .Rows}}<tr><td>{{.Feature}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table></div>{{end}}

{{define "store_card"}}<div class="store-card"><h3 class="store-name">{{.Name}}</h3><p class="store-address">{{.Address}}</p><p class="store-timings"><strong>Timings:</strong> {{.Hours}}</p><a href="{{.MapsURL}}" target="_blank" rel="noopener" class="direction-btn">Get Directions</a>{{if .Phone}}<a href="tel:{{.Phone}}" class="call-btn">Call Store</a>{{end}}</div>{{end}}

{{define "details_card"}}<div class="product-details-card"><div class="details-card-content"><div class="details-left"><img src="{{.Image}}" alt="{{.Name}}" class="details-img"/></div><div class="details-right"><h3 class="details-name">{{.Name}}</h3><p class="details-price"><strong>{{.MRP}}</strong></p><div class="details-actions"><a href="{{.URL}}" target="_blank" rel="noopener" class="details-btn">View Product</a><button class="add-to-cart-btn">Add to Cart</button></div></div></div>{{if .Specs}}<div class="details-specifications"><h4>Specifications:</h4><ul class="details-features">{{range .Specs}}{{if .Key}}<li><strong>{{.Key}}:</strong> {{.Value}}</li>{{else}}<li>&#10004; {{.Value}}</li>{{end}}{{end}}</ul></div>{{end}}</div>{{end}}

{{define "policy_card"}}<div class="policy-card"><h4 class="policy-title">Policy Information <small>({{.TotalFound}} section{{if ne .TotalFound 1}}s{{end}} found)</small></h4>{{range .Sections}}<div class="policy-section"><div class="policy-section-header"><span class="policy-doc">{{.Document}}</span><small class="policy-relevance">{{.Percent}}% relevant</small></div><div class="policy-content">{{.Content}}</div></div>{{end}}<div class="policy-footnote"><small>For complete terms and conditions, please visit our official website or contact customer service.</small></div></div>{{end}}
`
