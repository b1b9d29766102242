package domain

// DefaultPrompt prefills the generation form and the CLI when no prompt is given.
const DefaultPrompt = `Create a high-end, photorealistic, production-ready commercial product image using the attached product image as the base.

Preserve the product's exact shape, proportions, materials, and real-world color accuracy. Do not change the product design.

If a style reference image is provided: apply the reference style only (camera angle, framing, lighting softness, contrast, color grading, and background treatment). Do not copy branding or objects from the reference.

If a logo is provided: place the logo naturally on the product or its label/packaging where it physically makes sense. The logo must be sharp, undistorted, and interact realistically with the surface (printed/embossed/engraved as appropriate).

Do not add any extra graphics, text, symbols, patterns, props, or watermarks.
Do not distort the product or logo.
Avoid cartoon/illustration/CGI/mockup-style results.
No blur, no low resolution, no stylization.`
