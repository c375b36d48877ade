package http

const notFoundHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Page Not Found</title>
<style>
body { font-family: system-ui, sans-serif; text-align: center; padding: 4rem 1rem; color: #333; }
h1 { font-size: 3rem; margin-bottom: 0.5rem; }
a { color: #1a73e8; }
</style>
</head>
<body>
<h1>404</h1>
<p>The page you are looking for does not exist.</p>
<p><a href="/">Back to the store</a></p>
</body>
</html>`
